package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a customer with a running current account.
// The account balance is never stored on the client row: it is a projection
// over the append-only account_movements ledger.
type Client struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TenantID    uint       `gorm:"not null;index;uniqueIndex:idx_clients_tenant_cuit" json:"tenant_id"`
	Name        string     `gorm:"not null" json:"name"`
	CUIT        string     `gorm:"column:cuit;uniqueIndex:idx_clients_tenant_cuit" json:"cuit"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	Address     *string    `json:"address"`
	Note        *string    `gorm:"type:text" json:"note"`
	DiscardedAt *time.Time `gorm:"index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Sales     []Sale            `gorm:"foreignKey:ClientID" json:"sales,omitempty"`
	Movements []AccountMovement `gorm:"foreignKey:ClientID" json:"movements,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// ClientResponse is the JSON response format for clients
type ClientResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CUIT      string    `json:"cuit"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts Client to ClientResponse
func (c *Client) ToResponse() ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		CUIT:      c.CUIT,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}

// ClientAccountSummary is the derived state of a client's current account
type ClientAccountSummary struct {
	ClientID     uint            `json:"client_id"`
	Balance      decimal.Decimal `json:"balance"`
	PendingSales int64           `json:"pending_sales"`
}
