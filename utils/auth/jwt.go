package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yarmel/photoshare/config"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrWrongScope    = errors.New("invalid scope for token")
)

// Scope marks what a token is good for. Access and refresh tokens share
// one codec but are never interchangeable.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
)

// Claims is the signed claim set carried by every token
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Scope Scope  `json:"scope"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies JWTs with a server-held HMAC secret
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec builds a codec from the process configuration. The
// algorithm was validated at config load time, so GetSigningMethod
// always resolves.
func NewTokenCodec(cfg config.JWTConfig) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(cfg.Secret),
		method:     jwt.GetSigningMethod(cfg.Algorithm),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// AccessTTL reports the configured access-token lifetime
func (c *TokenCodec) AccessTTL() time.Duration {
	return c.accessTTL
}

// Encode serializes the claim set plus iat, exp and scope and signs it
func (c *TokenCodec) Encode(email, role string, scope Scope, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		Role:  role,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   email,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString(c.secret)
}

// EncodeAccess issues an access token with the configured TTL
func (c *TokenCodec) EncodeAccess(email, role string) (string, error) {
	return c.Encode(email, role, ScopeAccess, c.accessTTL)
}

// EncodeRefresh issues a refresh token with the configured TTL
func (c *TokenCodec) EncodeRefresh(email, role string) (string, error) {
	return c.Encode(email, role, ScopeRefresh, c.refreshTTL)
}

// Decode verifies signature, expiry and scope. Any verification failure
// yields a rejection, never a partial claim set.
func (c *TokenCodec) Decode(tokenString string, scope Scope) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		if token.Method.Alg() != c.method.Alg() {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.Scope != scope {
		return nil, ErrWrongScope
	}

	return claims, nil
}
