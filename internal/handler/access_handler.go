package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-registration/internal/models"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
	"github.com/noah-isme/sma-course-registration/pkg/response"
)

type accessGranter interface {
	Grant(ctx context.Context, req models.AccessRequest) (*models.AccessResponse, error)
}

// AccessHandler exchanges gate passphrases for role tokens.
type AccessHandler struct {
	access accessGranter
}

// NewAccessHandler constructs AccessHandler.
func NewAccessHandler(access accessGranter) *AccessHandler {
	return &AccessHandler{access: access}
}

// Token godoc
// @Summary Exchange a gate passphrase for a token
// @Tags Access
// @Accept json
// @Produce json
// @Param payload body models.AccessRequest true "Gate credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /access/token [post]
func (h *AccessHandler) Token(c *gin.Context) {
	var req models.AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrInvalidInput, err, "invalid payload"))
		return
	}
	token, err := h.access.Grant(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, token, nil)
}

// Me godoc
// @Summary Describe the current gate token
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /access/me [get]
func (h *AccessHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	data := gin.H{"role": claims.Role}
	if claims.ExpiresAt != nil {
		data["expires_at"] = claims.ExpiresAt.Time
	}
	response.JSON(c, http.StatusOK, data, nil)
}
