package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryFromToken reads the exp claim of a JWT without verifying it.
// The backend owns the signing key; the client only uses exp to drop stale
// credentials early. Opaque tokens report ok=false.
func ExpiryFromToken(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ParseRole maps a backend role name onto an application role.
// Unknown names are treated as standard users; admin needs an explicit match.
func ParseRole(name string) Role {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ROLE_ADMIN", "ADMIN":
		return RoleAdmin
	case "":
		return RoleGuest
	default:
		return RoleStandard
	}
}
