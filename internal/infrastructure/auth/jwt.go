package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/biztime"
)

// ErrTokenExpired is returned by Verify for a well-formed token past its expiry.
var ErrTokenExpired = errors.New("token expired")

type Claims struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the acting user.
func (c *Claims) Actor() user.Actor {
	return user.Actor{ID: c.UserID, Username: c.Username, Role: c.Role}
}

type JWTService struct {
	secret           []byte
	accessExpMinutes int
	issuer           string
	now              func() time.Time
}

func NewJWTService(secret string, accessExpMinutes int, issuer string) *JWTService {
	if accessExpMinutes <= 0 {
		accessExpMinutes = 24 * 60
	}
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
		issuer:           issuer,
		now:              biztime.NowUTC,
	}
}

// Generate signs an HS256 access token for actor.
func (s *JWTService) Generate(actor user.Actor) (string, error) {
	if actor.IsZero() || !actor.Role.IsValid() {
		return "", fmt.Errorf("cannot issue token for user %q", actor.Username)
	}

	now := s.now()
	claims := &Claims{
		UserID:   actor.ID,
		Username: actor.Username,
		Role:     actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   actor.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.accessExpMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == 0 || !claims.Role.IsValid() {
		return nil, fmt.Errorf("token carries no valid user")
	}
	return claims, nil
}

// AccessExpMinutes returns the access token expiration time in minutes
func (s *JWTService) AccessExpMinutes() int {
	return s.accessExpMinutes
}
