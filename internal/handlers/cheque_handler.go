package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/services"
)

type ChequeHandler struct {
	chequeService *services.ChequeService
}

func NewChequeHandler(chequeService *services.ChequeService) *ChequeHandler {
	return &ChequeHandler{chequeService: chequeService}
}

// @Summary List Cheques
// @Description Get a paginated list of cheques
// @Tags Cheques
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param bank_id query int false "Filter by bank"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /cheques [get]
func (h *ChequeHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["bank_id"] = c.Query("bank_id")

	cheques, total, err := h.chequeService.List(c.Request.Context(), middleware.GetTenantID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, ch := range cheques {
		responses = append(responses, ch.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"cheques":    responses,
		"pagination": paginationMeta(query, total),
	})
}

// @Summary Get Cheque
// @Description Get a cheque by ID
// @Tags Cheques
// @Produce json
// @Param id path int true "Cheque ID"
// @Success 200 {object} models.ChequeResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /cheques/{id} [get]
func (h *ChequeHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	cheque, err := h.chequeService.FindByID(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cheque.ToResponse())
}

// @Summary Load Cheque
// @Description Load a received cheque into the portfolio (initial state cargado)
// @Tags Cheques
// @Accept json
// @Produce json
// @Param request body services.ChequeRequest true "Cheque data"
// @Success 201 {object} models.ChequeResponse
// @Security BearerAuth
// @Router /cheques [post]
func (h *ChequeHandler) Create(c *gin.Context) {
	var req services.ChequeRequest
	if err := BindNestedOrFlat(c, "cheque", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cheque inválidos"})
		return
	}
	if req.Number == "" || req.BankID == 0 || req.Issuer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Número, banco y librador son requeridos"})
		return
	}

	cheque, err := h.chequeService.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cheque.ToResponse())
}

// @Summary Update Cheque
// @Description Update a cheque's details; amount and bank are frozen once a payment references it
// @Tags Cheques
// @Accept json
// @Produce json
// @Param id path int true "Cheque ID"
// @Param request body services.ChequeRequest true "Cheque data"
// @Success 200 {object} models.ChequeResponse
// @Security BearerAuth
// @Router /cheques/{id} [put]
func (h *ChequeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.ChequeRequest
	if err := BindNestedOrFlat(c, "cheque", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cheque inválidos"})
		return
	}

	cheque, err := h.chequeService.Update(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cheque.ToResponse())
}

type deliverChequeRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

// @Summary Deliver Cheque
// @Description Hand the cheque to a third party (cargado -> entregado)
// @Tags Cheques
// @Accept json
// @Produce json
// @Param id path int true "Cheque ID"
// @Param request body deliverChequeRequest true "Recipient"
// @Success 200 {object} models.ChequeResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cheques/{id}/deliver [post]
func (h *ChequeHandler) Deliver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req deliverChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El destinatario es requerido"})
		return
	}

	cheque, err := h.chequeService.Deliver(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id, req.Recipient)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cheque.ToResponse())
}

type rejectChequeRequest struct {
	Reason string `json:"reason"`
}

// @Summary Reject Cheque
// @Description Mark the cheque as bounced (cargado -> rechazado)
// @Tags Cheques
// @Accept json
// @Produce json
// @Param id path int true "Cheque ID"
// @Param request body rejectChequeRequest false "Rejection reason"
// @Success 200 {object} models.ChequeResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cheques/{id}/reject [post]
func (h *ChequeHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req rejectChequeRequest
	_ = c.ShouldBindJSON(&req)

	cheque, err := h.chequeService.Reject(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cheque.ToResponse())
}

// @Summary Cash Cheque
// @Description Mark the cheque as collected (cargado -> cobrado)
// @Tags Cheques
// @Produce json
// @Param id path int true "Cheque ID"
// @Success 200 {object} models.ChequeResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cheques/{id}/cash [post]
func (h *ChequeHandler) Cash(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	cheque, err := h.chequeService.Cash(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cheque.ToResponse())
}

// @Summary Void Cheque
// @Description Annul the cheque (cargado -> anulado)
// @Tags Cheques
// @Produce json
// @Param id path int true "Cheque ID"
// @Success 200 {object} models.ChequeResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cheques/{id}/void [post]
func (h *ChequeHandler) Void(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	cheque, err := h.chequeService.Void(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cheque.ToResponse())
}
