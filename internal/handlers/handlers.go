package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/induso/cobranzas-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Client   *ClientHandler
	Sale     *SaleHandler
	Payment  *PaymentHandler
	Rule     *RuleHandler
	Cheque   *ChequeHandler
	Treasury *TreasuryHandler
	Audit    *AuditHandler
	Job      *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Auth:     NewAuthHandler(svcs.Auth),
		Client:   NewClientHandler(svcs.Client, svcs.Export),
		Sale:     NewSaleHandler(svcs.Sale),
		Payment:  NewPaymentHandler(svcs.Payment),
		Rule:     NewRuleHandler(svcs.Rule),
		Cheque:   NewChequeHandler(svcs.Cheque),
		Treasury: NewTreasuryHandler(svcs.Treasury),
		Audit:    NewAuditHandler(svcs.Audit),
		Job:      NewJobHandler(svcs.Job),
	}
}

// respondError maps a service error onto the matching HTTP status. The
// categories are part of the API contract: validation failures are 422,
// missing references 404, concurrent-modification and duplicates 409,
// storage outages 503.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case services.IsStorage(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "servicio no disponible, reintente"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseID reads a numeric path parameter; a second return of false means the
// 400 response was already written.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return 0, false
	}
	return uint(id), true
}

// listQueryFromContext builds a ListQuery from the standard pagination and
// sort query parameters (sort format: field-direction).
func listQueryFromContext(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}
	return query
}

// paginationMeta builds the pagination block every list endpoint returns.
func paginationMeta(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}
