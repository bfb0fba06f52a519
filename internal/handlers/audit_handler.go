package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get recent audit log entries, newest first
// @Tags Audit
// @Produce json
// @Param limit query int false "Max entries" default(100)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *AuditHandler) Index(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.auditService.List(c.Request.Context(), middleware.GetTenantID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}
