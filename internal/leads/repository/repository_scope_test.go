package repository

import (
	"strings"
	"testing"
)

func TestListLeadsQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listLeadsQuery)

	if !strings.Contains(query, "where business_id = $1") {
		t.Fatal("expected list leads query to filter by business_id as the first parameter")
	}
	if !strings.Contains(query, "status = $3") {
		t.Fatal("expected list leads query to support a status filter")
	}
}
