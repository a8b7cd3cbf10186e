package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/middleware"
	"transport-service/internal/services"
)

// RouteHandler serves route, assignment, and checklist endpoints
type RouteHandler struct {
	routeService *services.RouteService
	logger       *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *services.RouteService, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{routeService: routeService, logger: logger}
}

// Create handles POST /routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req services.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, route)
}

// List handles GET /routes
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.routeService.ListRoutes(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, routes)
}

// Get handles GET /routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	details, err := h.routeService.GetRouteDetails(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, details)
}

// AssignStudent handles POST /routes/:id/students
func (h *RouteHandler) AssignStudent(c *gin.Context) {
	var req services.AssignStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	assignment, err := h.routeService.AssignStudent(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, assignment)
}

// AssignStaff handles POST /routes/:id/staff
func (h *RouteHandler) AssignStaff(c *gin.Context) {
	var req services.AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	assignment, err := h.routeService.AssignStaff(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, assignment)
}

// Checklist handles GET /routes/:id/checklist?date=YYYY-MM-DD&trip_leg=ida
func (h *RouteHandler) Checklist(c *gin.Context) {
	entries, err := h.routeService.GetChecklist(
		c.Request.Context(),
		middleware.GetPrincipal(c),
		c.Param("id"),
		c.Query("date"),
		c.Query("trip_leg"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, entries)
}

// PerformCheck handles POST /routes/:id/checks
func (h *RouteHandler) PerformCheck(c *gin.Context) {
	var req services.PerformCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	check, err := h.routeService.PerformCheck(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, check)
}
