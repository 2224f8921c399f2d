package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identify the user an access token was issued to.
type Claims struct {
	UserID      int64
	Permissions int
}

type JwtIssuer struct {
	secret    []byte
	algorithm string
	issuer    string
	ttl       time.Duration
}

type JwtConfig struct {
	Secret    []byte
	Algorithm string
	Issuer    string
	TTL       time.Duration
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Perm int `json:"perm"`
}

func NewJWTIssuer(cfg JwtConfig) *JwtIssuer {
	if cfg.Algorithm == "" {
		cfg.Algorithm = jwt.SigningMethodHS256.Alg()
	}

	return &JwtIssuer{
		secret:    cfg.Secret,
		algorithm: cfg.Algorithm,
		issuer:    cfg.Issuer,
		ttl:       cfg.TTL,
	}
}

func (ti *JwtIssuer) Issue(c Claims) (string, error) {
	now := time.Now()
	tk, err := jwt.NewWithClaims(jwt.GetSigningMethod(ti.algorithm), jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(c.UserID, 10),
			Issuer:    ti.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
		Perm: c.Permissions,
	}).SignedString(ti.secret)

	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tk, nil
}

func (ti *JwtIssuer) Validate(raw string) (Claims, error) {
	var jc jwtClaims
	_, err := jwt.ParseWithClaims(raw, &jc, func(t *jwt.Token) (any, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{ti.algorithm}),
		jwt.WithIssuer(ti.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	uid, err := strconv.ParseInt(jc.Subject, 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: subject %q", ErrInvalidToken, jc.Subject)
	}

	return Claims{UserID: uid, Permissions: jc.Perm}, nil
}
