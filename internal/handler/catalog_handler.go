package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-registration/internal/dto"
	"github.com/noah-isme/sma-course-registration/internal/models"
	appErrors "github.com/noah-isme/sma-course-registration/pkg/errors"
	"github.com/noah-isme/sma-course-registration/pkg/response"
)

type catalogReader interface {
	Subjects(grade models.GradeLevel) []models.Subject
	Offerings(grade models.GradeLevel) []models.OfferingRow
}

// CatalogHandler exposes the subject offerings.
type CatalogHandler struct {
	catalog catalogReader
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog catalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List subject offerings
// @Tags Catalog
// @Produce json
// @Param grade_level query string false "second-year or third-year; omit for both"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	grades := []models.GradeLevel{models.GradeSecondYear, models.GradeThirdYear}
	if raw := c.Query("grade_level"); raw != "" {
		grade := models.GradeLevel(raw)
		if !grade.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "grade_level must be second-year or third-year"))
			return
		}
		grades = []models.GradeLevel{grade}
	}

	out := make([]dto.CatalogResponse, 0, len(grades))
	for _, grade := range grades {
		out = append(out, dto.CatalogResponse{
			GradeLevel: grade,
			Offerings:  h.catalog.Offerings(grade),
			Subjects:   h.catalog.Subjects(grade),
		})
	}
	response.JSON(c, http.StatusOK, out, nil)
}
