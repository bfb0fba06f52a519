package statemachine

import (
	"context"
	"fmt"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/looplab/fsm"
)

// ChequeFSM wraps a cheque with its state machine.
//
// Only CARGADO has outgoing transitions. Whether ENTREGADO/RECHAZADO/COBRADO/
// ANULADO permit anything further is unconfirmed by the domain owner, so no
// event leaves them: an undefined jump (e.g. COBRADO → CARGADO) is rejected
// with a typed error instead of silently accepted.
type ChequeFSM struct {
	cheque *models.Cheque
	fsm    *fsm.FSM
}

// NewChequeFSM creates a new cheque state machine seeded from current status
func NewChequeFSM(cheque *models.Cheque) *ChequeFSM {
	cfsm := &ChequeFSM{
		cheque: cheque,
	}

	cfsm.fsm = fsm.NewFSM(
		cheque.Status,
		fsm.Events{
			// cargado → entregado (endorsed to a third party)
			{Name: "deliver", Src: []string{models.ChequeStatusCargado}, Dst: models.ChequeStatusEntregado},

			// cargado → rechazado (bounced)
			{Name: "reject", Src: []string{models.ChequeStatusCargado}, Dst: models.ChequeStatusRechazado},

			// cargado → cobrado (cashed)
			{Name: "cash", Src: []string{models.ChequeStatusCargado}, Dst: models.ChequeStatusCobrado},

			// cargado → anulado (voided)
			{Name: "void", Src: []string{models.ChequeStatusCargado}, Dst: models.ChequeStatusAnulado},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Deliver transitions the cheque to entregado
func (c *ChequeFSM) Deliver(ctx context.Context) error {
	if !c.cheque.MayDeliver() {
		return fmt.Errorf("cheque cannot be delivered in current state: %s", c.cheque.Status)
	}

	if err := c.fsm.Event(ctx, "deliver"); err != nil {
		return fmt.Errorf("failed to deliver cheque: %w", err)
	}

	c.cheque.Status = c.fsm.Current()
	return nil
}

// Reject transitions the cheque to rechazado
func (c *ChequeFSM) Reject(ctx context.Context) error {
	if !c.cheque.MayReject() {
		return fmt.Errorf("cheque cannot be rejected in current state: %s", c.cheque.Status)
	}

	if err := c.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject cheque: %w", err)
	}

	c.cheque.Status = c.fsm.Current()
	return nil
}

// Cash transitions the cheque to cobrado
func (c *ChequeFSM) Cash(ctx context.Context) error {
	if !c.cheque.MayCash() {
		return fmt.Errorf("cheque cannot be cashed in current state: %s", c.cheque.Status)
	}

	if err := c.fsm.Event(ctx, "cash"); err != nil {
		return fmt.Errorf("failed to cash cheque: %w", err)
	}

	c.cheque.Status = c.fsm.Current()
	return nil
}

// Void transitions the cheque to anulado
func (c *ChequeFSM) Void(ctx context.Context) error {
	if !c.cheque.MayVoid() {
		return fmt.Errorf("cheque cannot be voided in current state: %s", c.cheque.Status)
	}

	if err := c.fsm.Event(ctx, "void"); err != nil {
		return fmt.Errorf("failed to void cheque: %w", err)
	}

	c.cheque.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ChequeFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ChequeFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
