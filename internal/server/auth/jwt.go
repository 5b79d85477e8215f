package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/clubevent/internal/common"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is the fixed lifetime of a session token.
const TokenValidity = 7 * 24 * time.Hour

var ErrEmptySecret = errors.New("signing key is empty")

// Claims is the single source of the token shape. LoginType selects the
// store the gate resolves the principal against; Role alone is ambiguous
// for promoted students.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string         `json:"id"`
	Role        models.Role    `json:"role"`
	LoginType   models.Variant `json:"loginType,omitempty"`
	ClubName    string         `json:"clubName,omitempty"`
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenIssuer refuses an empty key; there is no built-in fallback.
func NewTokenIssuer(secret []byte) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &TokenIssuer{secret: secret, validity: TokenValidity, now: time.Now}, nil
}

// Issue builds and signs the claim set for p. The login type is p.Variant.
func (i *TokenIssuer) Issue(p *models.Principal) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		PrincipalID: p.ID,
		Role:        p.Role,
		LoginType:   p.Variant,
		ClubName:    p.ClubName,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Parse verifies signature, algorithm and expiry. Every failure wraps
// common.ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.PrincipalID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// StripBearer extracts the token from an authorization header value. The
// scheme is optional, matched case-insensitively and must be followed by
// whitespace; an empty result means no token was supplied.
func StripBearer(header string) string {
	scheme := strings.TrimSpace(common.BearerScheme)
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		if c := header[len(scheme)]; c == ' ' || c == '\t' {
			header = header[len(scheme)+1:]
		}
	}
	return strings.TrimSpace(header)
}
