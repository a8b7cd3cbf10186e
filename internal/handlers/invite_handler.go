package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/middleware"
	"transport-service/internal/services"
)

// InviteHandler serves invite creation and public token lookup
type InviteHandler struct {
	inviteService *services.InviteService
	logger        *logrus.Logger
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *services.InviteService, logger *logrus.Logger) *InviteHandler {
	return &InviteHandler{inviteService: inviteService, logger: logger}
}

// Create handles POST /invites
func (h *InviteHandler) Create(c *gin.Context) {
	var req services.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	invite, err := h.inviteService.CreateInvite(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, invite)
}

// GetByToken handles GET /invites/:token. Public: the registration page
// calls it to pre-fill email and role.
func (h *InviteHandler) GetByToken(c *gin.Context) {
	invite, err := h.inviteService.GetInviteByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"email":      invite.Email,
		"role":       invite.Role,
		"tenant_id":  invite.TenantID,
		"expires_at": invite.ExpiresAt,
	})
}
