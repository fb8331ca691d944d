package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"climbing-gym/belay/internal/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// accessClaims is the JWT body of an access token
type accessClaims struct {
	Roles   []int `json:"roles"`
	Version int   `json:"ver"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HMAC signed access tokens
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenService(secretKey []byte, ttl time.Duration) *TokenService {
	return &TokenService{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// Issue signs a token for userID carrying its active roles and token version
func (s *TokenService) Issue(userID uint, roles []constants.Role, version int) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	roleValues := make([]int, 0, len(roles))
	for _, r := range roles {
		roleValues = append(roleValues, int(r))
	}

	claims := accessClaims{
		Roles:   roleValues,
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Parse validates the signature and expiry and returns the caller's claims
func (s *TokenService) Parse(tokenString string) (*JWTClaims, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	roles := make([]constants.Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, constants.Role(r))
	}

	return &JWTClaims{
		UserIDValue:  uint(userID),
		RoleValues:   roles,
		VersionValue: claims.Version,
	}, nil
}
