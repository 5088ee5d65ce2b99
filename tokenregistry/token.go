package tokenregistry

import (
	"fmt"
	"math"
)

// Token is a named balance record tracking the total units the system holds
// for one token. The Registry is the exclusive owner of Token instances;
// liquidity pools hold non-owning pointers whose lifetime is the registry's.
//
// Token performs no locking. Serialization of mutations is the caller's
// responsibility (in practice, the exchange.System write lock).
type Token struct {
	name    string
	balance uint64
}

// TokenView is a safe, structured representation of a token's data for external use.
type TokenView struct {
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

func (t *Token) Name() string {
	return t.name
}

func (t *Token) Balance() uint64 {
	return t.balance
}

// Credit increases the balance by amount. The overflow check runs before any
// mutation, so a failed credit leaves the balance untouched.
func (t *Token) Credit(amount uint64) error {
	if amount > math.MaxUint64-t.balance {
		return fmt.Errorf("%w: %s balance %d + %d", ErrBalanceOverflow, t.name, t.balance, amount)
	}
	t.balance += amount
	return nil
}

// Debit decreases the balance by amount. The balance is unsigned, so any
// debit that would drive it negative is rejected before mutation.
func (t *Token) Debit(amount uint64) error {
	if amount > t.balance {
		return fmt.Errorf("%w: %s balance %d - %d", ErrInsufficientBalance, t.name, t.balance, amount)
	}
	t.balance -= amount
	return nil
}

// View returns the external representation of the token.
func (t *Token) View() TokenView {
	return TokenView{
		Name:    t.name,
		Balance: t.balance,
	}
}
