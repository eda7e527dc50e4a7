package repository

import (
	"strings"
	"testing"
)

func TestListInvoicesQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listInvoicesQuery)

	requiredFragments := []string{
		"from invoices i",
		"left join clients c on c.id = i.client_id",
		"where i.business_id = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected tenant-scoped query fragment %q to be present", fragment)
		}
	}
}
