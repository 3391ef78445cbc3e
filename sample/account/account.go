// Package account is a demonstration actor keeping a bank balance.
package account

import (
	"github.com/super-flat/actornode/actors"
)

// State of one account
type State struct {
	Balance int64
}

// Message is the closed set of messages an account understands
type Message interface {
	isAccountMessage()
}

// Deposit adds Amount to the balance
type Deposit struct {
	Amount int64
}

// Withdrawal subtracts Amount from the balance. The balance may go negative.
type Withdrawal struct {
	Amount int64
}

// GetBalance replies with the current balance as an int64
type GetBalance struct{}

func (Deposit) isAccountMessage()    {}
func (Withdrawal) isAccountMessage() {}
func (GetBalance) isAccountMessage() {}

// Handle is the account actor handler. Non-positive amounts leave the state
// untouched.
func Handle(ctx *actors.Context, state *State, msg Message) (*State, error) {
	switch m := msg.(type) {
	case Deposit:
		if m.Amount <= 0 {
			return state, nil
		}
		return &State{Balance: state.Balance + m.Amount}, nil
	case Withdrawal:
		if m.Amount <= 0 {
			return state, nil
		}
		return &State{Balance: state.Balance - m.Amount}, nil
	case GetBalance:
		ctx.RespondWith(state.Balance)
		return state, nil
	default:
		return state, nil
	}
}
