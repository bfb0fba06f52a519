package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/services"
)

type RuleHandler struct {
	ruleService *services.RuleService
}

func NewRuleHandler(ruleService *services.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// @Summary List Financial Cost Rules
// @Description Get all financial cost rules for the tenant
// @Tags Rules
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /rules [get]
func (h *RuleHandler) Index(c *gin.Context) {
	rules, err := h.ruleService.List(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, r := range rules {
		responses = append(responses, r.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"rules": responses})
}

// @Summary Create Financial Cost Rule
// @Description Create a cost rule for a payment method, optionally scoped to a bank
// @Tags Rules
// @Accept json
// @Produce json
// @Param request body services.CreateRuleRequest true "Rule data"
// @Success 201 {object} models.FinancialCostRuleResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	var req services.CreateRuleRequest
	if err := BindNestedOrFlat(c, "rule", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de regla inválidos"})
		return
	}
	if req.PaymentMethodID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El medio de pago es requerido"})
		return
	}

	rule, err := h.ruleService.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule.ToResponse())
}

// @Summary Preview Financial Cost
// @Description Resolve the cost percentage a payment would carry for a method and optional bank
// @Tags Rules
// @Produce json
// @Param payment_method_id query int true "Payment method ID"
// @Param bank_id query int false "Bank ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /rules/resolve [get]
func (h *RuleHandler) Resolve(c *gin.Context) {
	methodID, err := strconv.ParseUint(c.Query("payment_method_id"), 10, 32)
	if err != nil || methodID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El medio de pago es requerido"})
		return
	}

	var bankID *uint
	if raw := c.Query("bank_id"); raw != "" {
		parsed, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Banco inválido"})
			return
		}
		id := uint(parsed)
		bankID = &id
	}

	percentage, err := h.ruleService.Resolve(c.Request.Context(), middleware.GetTenantID(c), uint(methodID), bankID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"percentage": percentage})
}

// @Summary Update Financial Cost Rule
// @Description Update an existing cost rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param id path int true "Rule ID"
// @Param request body services.CreateRuleRequest true "Rule data"
// @Success 200 {object} models.FinancialCostRuleResponse
// @Security BearerAuth
// @Router /rules/{id} [put]
func (h *RuleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CreateRuleRequest
	if err := BindNestedOrFlat(c, "rule", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de regla inválidos"})
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule.ToResponse())
}

// @Summary Delete Financial Cost Rule
// @Description Delete a cost rule; payments fall back to the general rule or zero cost
// @Tags Rules
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /rules/{id} [delete]
func (h *RuleHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.ruleService.Delete(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Regla eliminada"})
}

// @Summary List Payment Methods
// @Description Get the tenant's payment method catalog
// @Tags Rules
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payment-methods [get]
func (h *RuleHandler) IndexMethods(c *gin.Context) {
	methods, err := h.ruleService.ListMethods(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

type createMethodRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary Create Payment Method
// @Description Add a payment method to the tenant's catalog
// @Tags Rules
// @Accept json
// @Produce json
// @Param request body createMethodRequest true "Method data"
// @Success 201 {object} models.PaymentMethodType
// @Security BearerAuth
// @Router /payment-methods [post]
func (h *RuleHandler) CreateMethod(c *gin.Context) {
	var req createMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido"})
		return
	}

	method, err := h.ruleService.CreateMethod(c.Request.Context(), middleware.GetTenantID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, method)
}
