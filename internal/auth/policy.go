package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/usecase-portal/internal/domain"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// Policy declares which roles and licenses may call an endpoint.
type Policy struct {
	Roles    []domain.Role
	Licenses []domain.License
}

// Authorize checks the principal's claims against the policy. A missing
// principal is an authentication failure, checked before role or license.
func Authorize(principal *Principal, policy Policy) error {
	if principal == nil || principal.Claims == nil {
		return apperrors.NewUnauthorized("user not found")
	}
	if !containsRole(policy.Roles, principal.Claims.Role) {
		return apperrors.NewForbidden("role not permitted")
	}
	if !containsLicense(policy.Licenses, principal.Claims.License) {
		return apperrors.NewForbidden("license not permitted")
	}
	return nil
}

// RequireAccess returns a route guard enforcing the policy against the
// authenticated principal.
func RequireAccess(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Authorize(principal, policy); err != nil {
			return err
		}
		return c.Next()
	}
}

func containsRole(allowed []domain.Role, role domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func containsLicense(allowed []domain.License, license domain.License) bool {
	for _, l := range allowed {
		if l == license {
			return true
		}
	}
	return false
}
