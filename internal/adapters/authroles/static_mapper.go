// Package authroles maps backend role names onto application roles.
package authroles

import (
	"strings"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

// StaticRoleMapper maps backend roles by configured name lists.
// Admin wins over user when both match; nothing matching yields guest.
type StaticRoleMapper struct {
	AdminRoles []string
	UserRoles  []string
}

// Map returns the highest application role any of roles grants.
func (m StaticRoleMapper) Map(roles ...string) domainauth.Role {
	for _, r := range roles {
		if contains(m.AdminRoles, r) {
			return domainauth.RoleAdmin
		}
	}
	for _, r := range roles {
		if contains(m.UserRoles, r) {
			return domainauth.RoleStandard
		}
	}
	return domainauth.RoleGuest
}

func contains(set []string, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}
