package candidateinfra

import (
	"context"
	"strings"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
)

const devCodePrefix = "dev-"

// DevIdentityProvider accepts codes of the form "dev-<subject>" and returns
// <subject> as the identity. For local runs without a real provider.
type DevIdentityProvider struct{}

func NewDevIdentityProvider() *DevIdentityProvider {
	return &DevIdentityProvider{}
}

var _ candidate.IdentityProvider = (*DevIdentityProvider)(nil)

func (p *DevIdentityProvider) Resolve(ctx context.Context, code string) (kernel.OpenID, error) {
	subject, ok := strings.CutPrefix(code, devCodePrefix)
	if !ok || subject == "" {
		return "", candidate.ErrInvalidLoginCode()
	}
	return kernel.OpenID(subject), nil
}

// DisabledIdentityProvider rejects every login. Used when no provider is configured.
type DisabledIdentityProvider struct{}

var _ candidate.IdentityProvider = DisabledIdentityProvider{}

func (DisabledIdentityProvider) Resolve(ctx context.Context, code string) (kernel.OpenID, error) {
	return "", candidate.ErrLoginDisabled()
}
