package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/middleware"
	"transport-service/internal/services"
)

// StudentHandler serves student management endpoints
type StudentHandler struct {
	studentService *services.StudentService
	logger         *logrus.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *services.StudentService, logger *logrus.Logger) *StudentHandler {
	return &StudentHandler{studentService: studentService, logger: logger}
}

// Create handles POST /students
func (h *StudentHandler) Create(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, student)
}

// List handles GET /students
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.studentService.ListStudents(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, students)
}

// ListMine handles GET /students/mine for guardians
func (h *StudentHandler) ListMine(c *gin.Context) {
	students, err := h.studentService.ListMyStudents(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, students)
}

// Get handles GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.studentService.GetStudent(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, student)
}

// UpdateAddresses handles PUT /students/:id/addresses. The payload replaces
// the student's full address set.
func (h *StudentHandler) UpdateAddresses(c *gin.Context) {
	var req services.UpdateStudentAddressesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	student, err := h.studentService.UpdateStudentAddresses(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, student)
}
