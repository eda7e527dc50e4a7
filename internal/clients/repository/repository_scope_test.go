package repository

import (
	"strings"
	"testing"
)

func TestListClientsQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listClientsQuery)

	if !strings.Contains(query, "where business_id = $1") {
		t.Fatal("expected list clients query to filter by business_id as the first parameter")
	}
	if !strings.Contains(query, "order by name asc") {
		t.Fatal("expected list clients query to order by name")
	}
}
