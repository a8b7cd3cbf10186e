package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/middleware"
	"transport-service/internal/services"
)

// ClientHandler serves the platform operator's tenant management endpoints
type ClientHandler struct {
	clientService *services.ClientService
	logger        *logrus.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService, logger *logrus.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, logger: logger}
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tenant, err := h.clientService.CreateClient(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, tenant)
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	summaries, err := h.clientService.ListClients(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, summaries)
}

// Get handles GET /clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	tenant, err := h.clientService.GetClient(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, tenant)
}
