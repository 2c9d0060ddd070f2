package extract

import (
	"testing"

	"github.com/halcyondata/company-intel/internal/entity"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{"Founder & CEO", entity.RoleFounder},
		{"Co-Founder", entity.RoleFounder},
		{"Chief Executive Officer", entity.RoleExecutive},
		{"CTO", entity.RoleExecutive},
		{"Vice President of Sales", entity.RoleExecutive},
		{"Engineering Director", entity.RoleDirector},
		{"Product Manager", entity.RoleManager},
		{"Head of Growth", entity.RoleManager},
		{"Software Engineer", entity.RoleEmployee},
		{"", entity.RoleEmployee},
		{"not_found", entity.RoleEmployee},
	}
	for _, tc := range cases {
		if got := NormalizeRole(tc.role); got != tc.want {
			t.Fatalf("NormalizeRole(%q)=%q, want %q", tc.role, got, tc.want)
		}
	}
}
