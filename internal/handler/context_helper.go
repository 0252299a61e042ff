package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-registration/internal/middleware"
	"github.com/noah-isme/sma-course-registration/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && v
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}

func summaryFilterFromQuery(c *gin.Context) models.SummaryFilter {
	return models.SummaryFilter{
		GradeLevel:   models.GradeLevel(c.Query("grade_level")),
		Term:         models.Term(c.Query("term")),
		MajorOnly:    queryBool(c, "major_only"),
		GroupByMajor: queryBool(c, "group_by_major"),
	}
}
