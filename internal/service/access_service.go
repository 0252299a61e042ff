package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-registration/internal/models"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
)

// AccessConfig defines the gate passphrases and token settings.
type AccessConfig struct {
	StudentPassphrase string
	AdminPassphrase   string
	TokenSecret       string
	TokenExpiry       time.Duration
	Issuer            string
}

// AccessService exchanges a gate passphrase for a short-lived role token.
type AccessService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AccessConfig
	now       func() time.Time
}

// NewAccessService constructs an AccessService instance.
func NewAccessService(validate *validator.Validate, logger *zap.Logger, config AccessConfig) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 2 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "course-registration"
	}
	return &AccessService{validator: validate, logger: logger, config: config, now: time.Now}
}

// Grant checks the passphrase for the requested gate and issues a token for that role.
func (s *AccessService) Grant(ctx context.Context, req models.AccessRequest) (*models.AccessResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInvalidInput, err, "role and passphrase are required")
	}

	expected := s.config.StudentPassphrase
	if req.Role == models.RoleAdmin {
		expected = s.config.AdminPassphrase
	}
	if expected == "" || subtle.ConstantTimeCompare([]byte(req.Passphrase), []byte(expected)) != 1 {
		s.logger.Warn("access denied", zap.String("role", string(req.Role)))
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "incorrect passphrase")
	}

	token, issuedAt, err := s.issue(req.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue access token")
	}
	s.logger.Info("access granted", zap.String("role", string(req.Role)))
	return &models.AccessResponse{
		AccessToken: token,
		Role:        req.Role,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates a gate token.
func (s *AccessService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AccessService) issue(role models.Role) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   string(role),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
