package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/services"
)

type TreasuryHandler struct {
	treasuryService *services.TreasuryService
}

func NewTreasuryHandler(treasuryService *services.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasuryService: treasuryService}
}

type namedRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary List Banks
// @Description Get the tenant's bank catalog
// @Tags Treasury
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /banks [get]
func (h *TreasuryHandler) IndexBanks(c *gin.Context) {
	banks, err := h.treasuryService.ListBanks(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"banks": banks})
}

// @Summary Create Bank
// @Description Add a bank to the tenant's catalog
// @Tags Treasury
// @Accept json
// @Produce json
// @Param request body namedRequest true "Bank data"
// @Success 201 {object} models.Bank
// @Security BearerAuth
// @Router /banks [post]
func (h *TreasuryHandler) CreateBank(c *gin.Context) {
	var req namedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido"})
		return
	}

	bank, err := h.treasuryService.CreateBank(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bank)
}

type createAccountRequest struct {
	Name   string `json:"name" binding:"required"`
	BankID *uint  `json:"bank_id"`
}

// @Summary List Accounts
// @Description Get the tenant's destination accounts with balances
// @Tags Treasury
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accounts [get]
func (h *TreasuryHandler) IndexAccounts(c *gin.Context) {
	accounts, err := h.treasuryService.ListAccounts(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// @Summary Create Account
// @Description Add a destination account, optionally tied to a bank
// @Tags Treasury
// @Accept json
// @Produce json
// @Param request body createAccountRequest true "Account data"
// @Success 201 {object} models.Account
// @Security BearerAuth
// @Router /accounts [post]
func (h *TreasuryHandler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido"})
		return
	}

	account, err := h.treasuryService.CreateAccount(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req.Name, req.BankID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// @Summary List Cash Registers
// @Description Get the tenant's cash registers with balances
// @Tags Treasury
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /cash-registers [get]
func (h *TreasuryHandler) IndexCashRegisters(c *gin.Context) {
	registers, err := h.treasuryService.ListCashRegisters(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cash_registers": registers})
}

// @Summary Create Cash Register
// @Description Add a cash register to the tenant
// @Tags Treasury
// @Accept json
// @Produce json
// @Param request body namedRequest true "Cash register data"
// @Success 201 {object} models.CashRegister
// @Security BearerAuth
// @Router /cash-registers [post]
func (h *TreasuryHandler) CreateCashRegister(c *gin.Context) {
	var req namedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido"})
		return
	}

	register, err := h.treasuryService.CreateCashRegister(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, register)
}
