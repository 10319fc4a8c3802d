package identity

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// ErrNoSecret is returned when a provider is built without a signing secret
var ErrNoSecret = models.Validation("jwt secret is not configured")

type claims struct {
	jwt.RegisteredClaims
	Admin bool `json:"adm,omitempty"`
}

// JWTProvider issues and resolves HS256 bearer tokens. The subject claim is
// the decimal user id.
type JWTProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	admins []types.UserID
	now    func() time.Time
}

// NewJWTProvider creates a provider. Users listed in admins resolve as
// administrators even when their token does not say so.
func NewJWTProvider(secret, issuer string, admins []int64) (*JWTProvider, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	p := &JWTProvider{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    24 * time.Hour,
		now:    time.Now,
	}
	for _, id := range admins {
		p.admins = append(p.admins, types.UserID(id))
	}
	return p, nil
}

// Issue signs a token for actor
func (p *JWTProvider) Issue(actor Actor) (string, error) {
	now := p.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		Admin: actor.Admin,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.secret)
}

// Resolve verifies a token and returns its actor
func (p *JWTProvider) Resolve(tokenStr string) (Actor, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(p.now)}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, opts...)
	if err != nil {
		return Actor{}, models.Wrap(models.KindPermissionDenied, "invalid token", err)
	}

	c, ok := token.Claims.(*claims)
	if !token.Valid || !ok {
		return Actor{}, models.Denied("", "invalid token claim")
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id < 0 {
		return Actor{}, models.Denied("", "token subject is not a user id")
	}

	user := types.UserID(id)
	return Actor{UserID: user, Admin: c.Admin || slices.Contains(p.admins, user)}, nil
}
