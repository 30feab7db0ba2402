package auth

import (
	"strings"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext is what the middleware leaves in fiber locals for operator requests
type AuthContext struct {
	UserID kernel.UserID
	Scopes []string
}

// HasScope checks a scope against the operator's grants
func (a *AuthContext) HasScope(scope string) bool {
	return HasScope(a.Scopes, scope)
}

// TokenMiddleware guards operator routes
type TokenMiddleware struct {
	tokens TokenService
}

// NewAuthMiddleware creates the operator middleware
func NewAuthMiddleware(tokens TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate requires a valid operator bearer token
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return ErrMissingToken()
		}

		claims, err := m.tokens.ValidateAccessToken(token)
		if err != nil {
			return err
		}
		if claims.Kind != SubjectOperator {
			return ErrWrongSubject().WithDetail("kind", claims.Kind)
		}

		c.Locals(authContextKey, &AuthContext{
			UserID: kernel.NewUserID(claims.Subject),
			Scopes: claims.Scopes,
		})
		return c.Next()
	}
}

// RequireScope must run after Authenticate
func (m *TokenMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !authContext.HasScope(scope) {
			return ErrInsufficientScope().WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}

// GetAuthContext extracts the operator context
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authContext, ok := c.Locals(authContextKey).(*AuthContext)
	return authContext, ok
}

// BearerToken reads "Authorization: Bearer <token>"
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
