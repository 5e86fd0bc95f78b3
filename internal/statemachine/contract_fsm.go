package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// ContractFSM wraps a contract with its state machine
type ContractFSM struct {
	contract *models.Contract
	fsm      *fsm.FSM
}

// NewContractFSM creates a new contract state machine
func NewContractFSM(contract *models.Contract) *ContractFSM {
	cfsm := &ContractFSM{
		contract: contract,
	}

	cfsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// pending → active
			{Name: "activate", Src: []string{models.ContractStatusPending}, Dst: models.ContractStatusActive},

			// active → completed
			{Name: "complete", Src: []string{models.ContractStatusActive}, Dst: models.ContractStatusCompleted},

			// pending/active → cancelled
			{Name: "cancel", Src: []string{models.ContractStatusPending, models.ContractStatusActive}, Dst: models.ContractStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Activate transitions contract to active state
func (c *ContractFSM) Activate(ctx context.Context) error {
	if !c.contract.MayActivate() {
		return fmt.Errorf("contract cannot be activated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Complete transitions contract to completed state. Requires the contract to
// be fully paid.
func (c *ContractFSM) Complete(ctx context.Context) error {
	if !c.contract.MayComplete() {
		return fmt.Errorf("contract cannot be completed: paid amount must cover total")
	}

	if err := c.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Cancel transitions contract to cancelled state
func (c *ContractFSM) Cancel(ctx context.Context) error {
	if !c.contract.MayCancel() {
		return fmt.Errorf("contract cannot be cancelled in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
