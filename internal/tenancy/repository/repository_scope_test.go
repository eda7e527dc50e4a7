package repository

import (
	"strings"
	"testing"
)

func TestListActiveBusinessesQueryFiltersOnActiveStatus(t *testing.T) {
	query := strings.ToLower(listActiveBusinessesForUserQuery)

	requiredFragments := []string{
		"from business_users bu",
		"join businesses b on b.id = bu.business_id",
		"where bu.user_id = $1 and bu.status = 'active'",
		"order by bu.created_at asc",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected query fragment %q to be present", fragment)
		}
	}
}

func TestListMembersQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listMembersQuery)

	requiredFragments := []string{
		"from business_users bu",
		"join users u on u.id = bu.user_id",
		"where bu.business_id = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected tenant-scoped query fragment %q to be present", fragment)
		}
	}
}
