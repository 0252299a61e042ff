package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-registration/internal/models"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
)

func newAccessService() *AccessService {
	return NewAccessService(nil, nil, AccessConfig{
		StudentPassphrase: "sjsh2025",
		AdminPassphrase:   "admin9704",
		TokenSecret:       "test-secret",
		TokenExpiry:       time.Hour,
	})
}

func TestAccessServiceGrantAndValidate(t *testing.T) {
	svc := newAccessService()

	resp, err := svc.Grant(context.Background(), models.AccessRequest{Role: models.RoleAdmin, Passphrase: "admin9704"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "course-registration", claims.Issuer)
}

func TestAccessServiceGatesAreSeparate(t *testing.T) {
	svc := newAccessService()

	_, err := svc.Grant(context.Background(), models.AccessRequest{Role: models.RoleAdmin, Passphrase: "sjsh2025"})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	resp, err := svc.Grant(context.Background(), models.AccessRequest{Role: models.RoleStudent, Passphrase: "sjsh2025"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.Role)
}

func TestAccessServiceRejectsInvalidRequest(t *testing.T) {
	svc := newAccessService()

	_, err := svc.Grant(context.Background(), models.AccessRequest{Role: "TEACHER", Passphrase: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))

	_, err = svc.Grant(context.Background(), models.AccessRequest{Role: models.RoleStudent})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))
}

func TestAccessServiceRejectsForeignTokens(t *testing.T) {
	svc := newAccessService()

	other := NewAccessService(nil, nil, AccessConfig{StudentPassphrase: "p", TokenSecret: "another-secret"})
	resp, err := other.Grant(context.Background(), models.AccessRequest{Role: models.RoleStudent, Passphrase: "p"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{Role: models.RoleAdmin})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(raw)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAccessServiceExpiredToken(t *testing.T) {
	svc := newAccessService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Grant(context.Background(), models.AccessRequest{Role: models.RoleStudent, Passphrase: "sjsh2025"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
