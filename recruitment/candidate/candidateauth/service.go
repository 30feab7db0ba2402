package candidateauth

import (
	"context"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidatesrv"
)

type CandidateAuthService struct {
	identity         candidate.IdentityProvider
	candidateService *candidatesrv.CandidateService
	tokenService     *CandidateTokenService
}

func NewCandidateAuthService(
	identity candidate.IdentityProvider,
	candidateService *candidatesrv.CandidateService,
	tokenService *CandidateTokenService,
) *CandidateAuthService {
	return &CandidateAuthService{
		identity:         identity,
		candidateService: candidateService,
		tokenService:     tokenService,
	}
}

func (s *CandidateAuthService) resolve(ctx context.Context, code string) (kernel.OpenID, error) {
	openID, err := s.identity.Resolve(ctx, code)
	if err != nil {
		if _, ok := errx.As(err); ok {
			return "", err
		}
		return "", candidate.ErrIdentityUnavailable().WithCause(err)
	}
	if openID.IsEmpty() {
		return "", candidate.ErrInvalidLoginCode()
	}
	return openID, nil
}

// Login exchanges a login code for a session of an already registered
// candidate, applying the profile fields sent along with the code
func (s *CandidateAuthService) Login(ctx context.Context, req candidate.LoginRequest) (*candidate.CandidateSession, error) {
	openID, err := s.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	c, err := s.candidateService.GetByOpenID(ctx, openID)
	if err != nil {
		if errx.IsCode(err, candidate.CodeCandidateNotFound) {
			return nil, candidate.ErrNotRegistered()
		}
		return nil, err
	}

	if patch := req.ProfilePatch(); !patch.IsEmpty() {
		updated, err := s.candidateService.UpdateProfile(ctx, c.ID, patch)
		if err != nil {
			return nil, err
		}
		c = updated
	}

	if err := s.candidateService.RecordLogin(ctx, c.ID); err != nil {
		logx.Warnf("Failed to record login for candidate %s: %v", c.ID, err)
	}

	return s.newSession(c)
}

// Register creates the candidate profile for the code's identity and opens a session
func (s *CandidateAuthService) Register(ctx context.Context, req candidate.RegisterRequest) (*candidate.CandidateSession, error) {
	openID, err := s.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	c, err := s.candidateService.CreateProfile(ctx, openID, req)
	if err != nil {
		return nil, err
	}

	return s.newSession(c)
}

func (s *CandidateAuthService) newSession(c *candidate.Candidate) (*candidate.CandidateSession, error) {
	token, expiresAt, err := s.tokenService.GenerateCandidateToken(c.ID)
	if err != nil {
		return nil, err
	}

	return &candidate.CandidateSession{
		CandidateID: c.ID,
		Token:       token,
		ExpiresAt:   expiresAt,
		Profile:     c.ToResponse(),
	}, nil
}
