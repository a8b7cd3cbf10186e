package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"transport-service/internal/metrics"
	"transport-service/internal/middleware"
	"transport-service/internal/services"
)

// ContractHandler serves the contract and installment lifecycle endpoints
type ContractHandler struct {
	contractService *services.ContractService
	metrics         *metrics.Metrics
	logger          *logrus.Logger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService *services.ContractService, m *metrics.Metrics, logger *logrus.Logger) *ContractHandler {
	return &ContractHandler{contractService: contractService, metrics: m, logger: logger}
}

// Create handles POST /contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req services.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.metrics.ContractsCreated.Inc()
	respondSuccess(c, http.StatusCreated, contract)
}

// List handles GET /contracts?status=pending|paid
func (h *ContractHandler) List(c *gin.Context) {
	summaries, err := h.contractService.ListContracts(c.Request.Context(), middleware.GetPrincipal(c), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, summaries)
}

// Get handles GET /contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	details, err := h.contractService.GetContractDetails(c.Request.Context(), middleware.GetPrincipal(c), contractID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, details)
}

// RegisterPayment handles POST /installments/:id/payment
func (h *ContractHandler) RegisterPayment(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req services.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	installment, err := h.contractService.RegisterPayment(c.Request.Context(), middleware.GetPrincipal(c), installmentID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.metrics.PaymentsRegistered.Inc()
	respondSuccess(c, http.StatusOK, installment)
}

// UndoPayment handles DELETE /installments/:id/payment
func (h *ContractHandler) UndoPayment(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	installment, err := h.contractService.UndoPayment(c.Request.Context(), middleware.GetPrincipal(c), installmentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, installment)
}

// bulkPaymentRequest is the bulk payment payload
type bulkPaymentRequest struct {
	InstallmentIDs []uuid.UUID `json:"installment_ids"`
	PaymentDate    time.Time   `json:"payment_date"`
}

// RegisterBulkPayment handles POST /installments/bulk-payment
func (h *ContractHandler) RegisterBulkPayment(c *gin.Context) {
	var req bulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.contractService.RegisterBulkPayment(c.Request.Context(), middleware.GetPrincipal(c), req.InstallmentIDs, req.PaymentDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.metrics.PaymentsRegistered.Add(float64(result.Count))
	respondSuccess(c, http.StatusOK, result)
}
