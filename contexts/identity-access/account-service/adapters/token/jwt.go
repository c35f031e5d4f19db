package tokenadapter

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"servhub/contexts/identity-access/account-service/ports"
)

const issuer = "servhub"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec signs and validates HS256 bearer tokens carrying the user ID
// as subject and the account type as role claim.
type JWTCodec struct {
	Secret []byte
	TTL    time.Duration
}

func (c JWTCodec) Issue(identity ports.Identity, issuedAt time.Time) (string, error) {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	})
	return token.SignedString(c.Secret)
}

func (c JWTCodec) Decode(tokenString string) (ports.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		return c.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ports.Identity{}, err
	}
	parsed, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return ports.Identity{}, jwt.ErrTokenInvalidClaims
	}
	return ports.Identity{UserID: parsed.Subject, Role: parsed.Role}, nil
}
