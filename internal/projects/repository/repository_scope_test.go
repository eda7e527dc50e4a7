package repository

import (
	"strings"
	"testing"
)

func TestListProjectsQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listProjectsQuery)

	requiredFragments := []string{
		"from projects p",
		"left join clients c on c.id = p.client_id",
		"where p.business_id = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected tenant-scoped query fragment %q to be present", fragment)
		}
	}
}
