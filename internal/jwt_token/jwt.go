package jwttoken

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"muniadmin/pkg/domain"
	dErrors "muniadmin/pkg/domain-errors"
)

// Claims represents the JWT claims for our session tokens. The permission
// set is a snapshot taken at issuance; it is not re-read from storage on
// later requests and stays valid until the token expires.
type Claims struct {
	UserID      int64                `json:"user_id"`
	Username    string               `json:"username"`
	Permissions domain.PermissionSet `json:"permissions"`
	jwt.RegisteredClaims
}

// Service handles session token creation and validation. Verification is a
// pure offline check: no storage round trip per request.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     "muniadmin",
		ttl:        ttl,
	}
}

// Issue signs a token for the given principal. Permissions are marshaled in
// the canonical array form regardless of how they were stored.
func (s *Service) Issue(userID int64, username string, permissions domain.PermissionSet) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:      userID,
		Username:    username,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// Verify parses and validates a token. Every failure mode (bad signature,
// malformed token, expiry) surfaces as the same unauthorized error so the
// response does not leak which check failed; the wrapped cause keeps the
// distinction available to internal logging.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		// Deliberately the same message for expiry, bad signature, and
		// malformed input; the cause is only for internal logs.
		return nil, dErrors.Wrap(dErrors.CodeUnauthorized, "invalid token", err)
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}
