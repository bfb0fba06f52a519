package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary Register Payment
// @Description Registers a client payment: computes the financial cost, applies it to the sale and posts the ledger movement atomically
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body services.RegisterPaymentRequest true "Payment data"
// @Success 201 {object} models.PaymentResult
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req services.RegisterPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de pago inválidos"})
		return
	}
	if req.ClientID == 0 || req.SaleID == 0 || req.PaymentMethodID == 0 || req.AccountID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cliente, venta, medio de pago y cuenta son requeridos"})
		return
	}

	result, err := h.paymentService.Register(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// @Summary List Payments
// @Description Get a paginated list of registered payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Param sale_id query int false "Filter by sale"
// @Param start_date query string false "Registered after (YYYY-MM-DD)"
// @Param end_date query string false "Registered before (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["client_id"] = c.Query("client_id")
	query.Filters["sale_id"] = c.Query("sale_id")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	payments, total, err := h.paymentService.List(c.Request.Context(), middleware.GetTenantID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": paginationMeta(query, total),
	})
}

// @Summary Get Payment
// @Description Get a payment by ID
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.FindByID(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// @Summary Get Payment Ledger Trace
// @Description Get the account movements a payment posted
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{id}/movements [get]
func (h *PaymentHandler) Movements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	movements, err := h.paymentService.LedgerTrace(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements})
}
