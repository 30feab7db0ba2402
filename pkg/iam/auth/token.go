package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/golang-jwt/jwt/v5"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeMissingToken      = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Please sign in to continue")
	CodeInvalidToken      = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Your session is invalid or has expired")
	CodeWrongSubject      = ErrRegistry.Register("WRONG_SUBJECT", errx.TypeAuthorization, http.StatusForbidden, "This token cannot be used here")
	CodeInsufficientScope = ErrRegistry.Register("INSUFFICIENT_SCOPE", errx.TypeAuthorization, http.StatusForbidden, "You do not have permission for this action")
)

func ErrMissingToken() *errx.Error      { return ErrRegistry.New(CodeMissingToken) }
func ErrInvalidToken() *errx.Error      { return ErrRegistry.New(CodeInvalidToken) }
func ErrWrongSubject() *errx.Error      { return ErrRegistry.New(CodeWrongSubject) }
func ErrInsufficientScope() *errx.Error { return ErrRegistry.New(CodeInsufficientScope) }

// SubjectKind tells operator tokens apart from candidate tokens
type SubjectKind string

const (
	SubjectOperator  SubjectKind = "operator"
	SubjectCandidate SubjectKind = "candidate"
)

// TokenClaims is the validated content of an access token
type TokenClaims struct {
	Subject   string
	Kind      SubjectKind
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and validates access tokens
type TokenService interface {
	GenerateAccessToken(subject string, kind SubjectKind, scopes []string, ttl time.Duration) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

type jwtClaims struct {
	Kind   SubjectKind `json:"kind"`
	Scopes []string    `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 tokens
type JWTService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTService creates a JWT-backed TokenService
func NewJWTService(secret, issuer string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

var _ TokenService = (*JWTService)(nil)

func (s *JWTService) GenerateAccessToken(subject string, kind SubjectKind, scopes []string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwtClaims{
		Kind:   kind,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errx.Wrap(err, "failed to sign token", errx.TypeInternal)
	}
	return signed, nil
}

func (s *JWTService) ValidateAccessToken(token string) (*TokenClaims, error) {
	var claims jwtClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrInvalidToken().WithDetail("reason", "expired")
		}
		return nil, ErrInvalidToken().WithCause(err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken().WithDetail("reason", "missing subject")
	}

	return &TokenClaims{
		Subject:   claims.Subject,
		Kind:      claims.Kind,
		Scopes:    claims.Scopes,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
