package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-registration/internal/dto"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
	"github.com/noah-isme/sma-course-registration/pkg/response"
)

type registrationService interface {
	Validate(ctx context.Context, req dto.ValidateSelectionRequest) (*dto.EligibilityResponse, error)
	Submit(ctx context.Context, req dto.SubmitSelectionRequest) (*dto.SubmissionResponse, error)
}

// RegistrationHandler exposes the student registration form endpoints.
type RegistrationHandler struct {
	registrations registrationService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations registrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// Validate godoc
// @Summary Check a selection against the registration rules without saving it
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.ValidateSelectionRequest true "Selection"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations/validate [post]
func (h *RegistrationHandler) Validate(c *gin.Context) {
	var req dto.ValidateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrInvalidInput, err, "invalid payload"))
		return
	}
	result, err := h.registrations.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Submit godoc
// @Summary Submit a course selection
// @Description Replaces any earlier submission by the same student for the same grade level.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.SubmitSelectionRequest true "Selection"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req dto.SubmitSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrInvalidInput, err, "invalid payload"))
		return
	}
	result, err := h.registrations.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
