package extract

import (
	"strings"

	"github.com/halcyondata/company-intel/internal/entity"
)

// roleCategories is checked in order; the first keyword hit wins, so the
// more specific titles sit above the generic ones.
var roleCategories = []struct {
	category string
	keywords []string
}{
	{entity.RoleFounder, []string{"founder", "co-founder"}},
	{entity.RoleExecutive, []string{"ceo", "chief executive", "cto", "cfo", "coo", "president", "vice president", "chief"}},
	{entity.RoleDirector, []string{"director"}},
	{entity.RoleManager, []string{"manager", "lead", "head"}},
}

// NormalizeRole buckets a free-text role into one of the fixed categories.
// Unrecognized or absent roles land in Employee.
func NormalizeRole(role string) string {
	lower := strings.ToLower(strings.TrimSpace(role))
	if lower == "" || lower == entity.NotFound {
		return entity.RoleEmployee
	}
	for _, rc := range roleCategories {
		for _, kw := range rc.keywords {
			if strings.Contains(lower, kw) {
				return rc.category
			}
		}
	}
	return entity.RoleEmployee
}
