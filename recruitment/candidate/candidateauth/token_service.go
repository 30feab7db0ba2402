package candidateauth

import (
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

// CandidateTokenService wraps IAM's TokenService for candidate-specific tokens
type CandidateTokenService struct {
	iamTokenService auth.TokenService
	ttl             time.Duration
}

// NewCandidateTokenService creates a wrapper around IAM's TokenService
func NewCandidateTokenService(iamTokenService auth.TokenService, ttl time.Duration) *CandidateTokenService {
	return &CandidateTokenService{
		iamTokenService: iamTokenService,
		ttl:             ttl,
	}
}

// GenerateCandidateToken issues a session token for a candidate
func (s *CandidateTokenService) GenerateCandidateToken(candidateID kernel.CandidateID) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)
	token, err := s.iamTokenService.GenerateAccessToken(candidateID.String(), auth.SubjectCandidate, nil, s.ttl)
	if err != nil {
		return "", time.Time{}, errx.Wrap(err, "failed to generate candidate token", errx.TypeInternal)
	}
	return token, expiresAt, nil
}

// ValidateCandidateToken validates a candidate token
func (s *CandidateTokenService) ValidateCandidateToken(tokenString string) (*CandidateClaims, error) {
	tokenClaims, err := s.iamTokenService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if tokenClaims.Kind != auth.SubjectCandidate {
		return nil, auth.ErrWrongSubject().WithDetail("kind", tokenClaims.Kind)
	}

	return &CandidateClaims{
		CandidateID: kernel.NewCandidateID(tokenClaims.Subject),
		ExpiresAt:   tokenClaims.ExpiresAt,
	}, nil
}

// CandidateClaims represents candidate-specific claims
type CandidateClaims struct {
	CandidateID kernel.CandidateID
	ExpiresAt   time.Time
}
