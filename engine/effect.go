package engine

import (
	"fmt"

	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/x/asset"
)

// Effect is an outbound transfer a call produced but did not execute.
// State changes inside the contract are final once a call returns, the
// host dispatches the effects afterwards. A failed effect never rolls
// the call back.
type Effect struct {
	// To is the recipient of the transfer.
	To fractal.Address
	// Amount is how much to transfer.
	Amount coin.Amount
	// Asset identifies what to transfer. Nil means the native currency,
	// anything else is a cross ledger transfer on the asset's origin.
	Asset *asset.ID
}

func (e Effect) String() string {
	if e.Asset == nil {
		return fmt.Sprintf("%d native to %s", e.Amount, e.To)
	}
	return fmt.Sprintf("%d of %s to %s", e.Amount, e.Asset, e.To)
}

// refund builds a native currency effect back to the caller.
func refund(to fractal.Address, amount coin.Amount) Effect {
	return Effect{To: to, Amount: amount}
}
