package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/middleware"
	"transport-service/internal/services"
)

// SchoolHandler serves school management endpoints
type SchoolHandler struct {
	schoolService *services.SchoolService
	logger        *logrus.Logger
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(schoolService *services.SchoolService, logger *logrus.Logger) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService, logger: logger}
}

// Create handles POST /schools
func (h *SchoolHandler) Create(c *gin.Context) {
	var req services.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	school, err := h.schoolService.CreateSchool(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, school)
}

// List handles GET /schools
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.schoolService.ListSchools(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, schools)
}

// Get handles GET /schools/:id
func (h *SchoolHandler) Get(c *gin.Context) {
	school, err := h.schoolService.GetSchool(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, school)
}
