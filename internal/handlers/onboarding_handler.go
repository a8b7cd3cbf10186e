package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/services"
)

// OnboardingHandler serves the public enrollment flow
type OnboardingHandler struct {
	onboardingService *services.OnboardingService
	logger            *logrus.Logger
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingService *services.OnboardingService, logger *logrus.Logger) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService, logger: logger}
}

// Enroll handles POST /onboarding/:tenantId/matricula
func (h *OnboardingHandler) Enroll(c *gin.Context) {
	var req services.MatriculaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.onboardingService.Enroll(c.Request.Context(), c.Param("tenantId"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, result)
}
