package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/services"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// @Summary List Sales
// @Description Get a paginated list of sales
// @Tags Sales
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Param pending query bool false "Only sales with outstanding balance"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales [get]
func (h *SaleHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["client_id"] = c.Query("client_id")
	query.Filters["pending"] = c.Query("pending")

	sales, total, err := h.saleService.List(c.Request.Context(), middleware.GetTenantID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, s := range sales {
		responses = append(responses, s.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":      responses,
		"pagination": paginationMeta(query, total),
	})
}

// @Summary Get Sale
// @Description Get a sale by ID
// @Tags Sales
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} models.SaleResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{id} [get]
func (h *SaleHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.FindByID(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale.ToResponse())
}

// @Summary Create Sale
// @Description Record a sale and debit the client's current account
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body services.SaleRequest true "Sale data"
// @Success 201 {object} models.SaleResponse
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req services.SaleRequest
	if err := BindNestedOrFlat(c, "sale", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de venta inválidos"})
		return
	}
	if req.ClientID == 0 || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cliente y descripción son requeridos"})
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale.ToResponse())
}

type editSaleRequest struct {
	Description string          `json:"description" binding:"required"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// @Summary Edit Sale
// @Description Administrative edit of a sale's description or total
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path int true "Sale ID"
// @Param request body editSaleRequest true "Sale data"
// @Success 200 {object} models.SaleResponse
// @Security BearerAuth
// @Router /sales/{id} [put]
func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req editSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de venta inválidos"})
		return
	}

	sale, err := h.saleService.AdministrativeEdit(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id, req.Description, req.TotalAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale.ToResponse())
}
