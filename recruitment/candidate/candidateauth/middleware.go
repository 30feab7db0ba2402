package candidateauth

import (
	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Middleware requires a valid candidate session token
func Middleware(tokenService *CandidateTokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := auth.BearerToken(c)
		if !ok {
			return auth.ErrMissingToken()
		}

		claims, err := tokenService.ValidateCandidateToken(token)
		if err != nil {
			return err
		}

		c.Locals("candidate_id", claims.CandidateID)
		return c.Next()
	}
}

// OptionalMiddleware identifies the candidate when a valid token is sent and
// lets anonymous requests through otherwise
func OptionalMiddleware(tokenService *CandidateTokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := auth.BearerToken(c); ok {
			if claims, err := tokenService.ValidateCandidateToken(token); err == nil {
				c.Locals("candidate_id", claims.CandidateID)
			}
		}
		return c.Next()
	}
}

// GetCandidateID extracts candidate ID from context
func GetCandidateID(c *fiber.Ctx) (kernel.CandidateID, bool) {
	candidateID, ok := c.Locals("candidate_id").(kernel.CandidateID)
	return candidateID, ok && !candidateID.IsEmpty()
}
