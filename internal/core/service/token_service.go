package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogstack/blog-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the claim set carried by issued tokens. The subject holds
// the account id; role travels in a private claim.
type tokenClaims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed bearer tokens. The secret is
// injected at construction so tests can run against a fixed key; it is never
// read from ambient state.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token encoding the identity's id, username, and role,
// valid from now until now plus the configured lifetime.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token's signature and expiry and reconstructs the
// encoded identity. Claims are never read from a token whose signature does
// not check out. The identity is trusted as of issuance time; no store
// lookup happens here.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	return domain.Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
