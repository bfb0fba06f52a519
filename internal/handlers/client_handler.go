package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/services"
)

type ClientHandler struct {
	clientService *services.ClientService
	exportService *services.ExportService
}

func NewClientHandler(clientService *services.ClientService, exportService *services.ExportService) *ClientHandler {
	return &ClientHandler{clientService: clientService, exportService: exportService}
}

// @Summary List Clients
// @Description Get a paginated list of clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by name or CUIT"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)

	clients, total, err := h.clientService.List(c.Request.Context(), middleware.GetTenantID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, cl := range clients {
		responses = append(responses, cl.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":    responses,
		"pagination": paginationMeta(query, total),
	})
}

// @Summary Get Client
// @Description Get a client by ID
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.FindByID(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, client.ToResponse())
}

// @Summary Create Client
// @Description Create a new client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body services.ClientRequest true "Client data"
// @Success 201 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req services.ClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cliente inválidos"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido"})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client.ToResponse())
}

// @Summary Update Client
// @Description Update an existing client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body services.ClientRequest true "Client data"
// @Success 200 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.ClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cliente inválidos"})
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, client.ToResponse())
}

// @Summary Delete Client
// @Description Soft-delete a client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Discard(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}

// @Summary Pending Sales
// @Description List the client's sales with outstanding balance
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{id}/pending-sales [get]
func (h *ClientHandler) PendingSales(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sales, err := h.clientService.PendingSales(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, s := range sales {
		responses = append(responses, s.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"sales": responses})
}

// @Summary Account Movements
// @Description List the client's current-account movements, newest first
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{id}/movements [get]
func (h *ClientHandler) Movements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	movements, err := h.clientService.Movements(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, m := range movements {
		responses = append(responses, m.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"movements": responses})
}

// @Summary Account Summary
// @Description Get the client's current-account summary with balance
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.ClientAccountSummary
// @Security BearerAuth
// @Router /clients/{id}/summary [get]
func (h *ClientHandler) Summary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.clientService.AccountSummary(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Add Manual Movement
// @Description Append a hand-entered adjustment to the client's ledger
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body services.ManualMovementRequest true "Movement data"
// @Success 201 {object} models.AccountMovementResponse
// @Security BearerAuth
// @Router /clients/{id}/movements [post]
func (h *ClientHandler) AddMovement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.ManualMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de movimiento inválidos"})
		return
	}

	movement, err := h.clientService.AddManualMovement(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movement.ToResponse())
}

// @Summary Download Account Statement PDF
// @Description Download the client's current-account statement as PDF
// @Tags Clients
// @Produce application/pdf
// @Param id path int true "Client ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /clients/{id}/statement.pdf [get]
func (h *ClientHandler) StatementPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportService.StatementPDF(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Download Movements XLSX
// @Description Download the client's movements as an Excel workbook
// @Tags Clients
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Client ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /clients/{id}/movements.xlsx [get]
func (h *ClientHandler) MovementsXLSX(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportService.MovementsXLSX(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
