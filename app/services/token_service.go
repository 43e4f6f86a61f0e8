package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/Susanoo/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService handles JWT token generation and validation for advertiser API access
type TokenService interface {
	GenerateToken(advertiserID uint) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
}

// TokenClaims represents the claims in an advertiser JWT
type TokenClaims struct {
	AdvertiserID uint      `json:"advertiser_id"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenID      string    `json:"jti"`
}

// TokenServiceImpl implements TokenService with a symmetric signing key
type TokenServiceImpl struct {
	tokenTTL  time.Duration
	secretKey []byte
	issuer    string
	audience  string
}

// NewTokenService creates a new token service
func NewTokenService(tokenTTL time.Duration, issuer, audience, secretKey string) (TokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	return &TokenServiceImpl{
		tokenTTL:  tokenTTL,
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
	}, nil
}

// GenerateToken creates a signed access token for an advertiser
func (t *TokenServiceImpl) GenerateToken(advertiserID uint) (string, error) {
	now := utils.UTCNow()
	claims := jwt.MapClaims{
		"advertiser_id": advertiserID,
		"iss":           t.issuer,
		"aud":           t.audience,
		"iat":           now.Unix(),
		"exp":           now.Add(t.tokenTTL).Unix(),
		"jti":           uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a signed token
func (t *TokenServiceImpl) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secretKey, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	advertiserID, ok := claims["advertiser_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing advertiser_id claim", ErrTokenInvalid)
	}

	result := &TokenClaims{
		AdvertiserID: uint(advertiserID),
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	if jti, ok := claims["jti"].(string); ok {
		result.TokenID = jti
	}
	return result, nil
}

// MockTokenService implements TokenService for testing
type MockTokenService struct {
	Claims      *TokenClaims
	ValidateErr error
}

func (m *MockTokenService) GenerateToken(advertiserID uint) (string, error) {
	return fmt.Sprintf("mock-token-%d", advertiserID), nil
}

func (m *MockTokenService) ValidateToken(token string) (*TokenClaims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	if m.Claims != nil {
		return m.Claims, nil
	}
	return &TokenClaims{AdvertiserID: 1}, nil
}
