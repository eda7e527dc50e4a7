package repository

import (
	"strings"
	"testing"
)

func TestListTasksQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listTasksQuery)

	requiredFragments := []string{
		"from tasks t",
		"left join projects p on p.id = t.project_id",
		"where t.business_id = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected tenant-scoped query fragment %q to be present", fragment)
		}
	}
}
