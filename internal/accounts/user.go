package accounts

import "github.com/lendfi/lendclient/internal/assembler"

// User lending account storage slots: collateral per asset in 0-2,
// debt per asset in 3-5, the pool account ID in slot 6.
const (
	SlotCollateralBase = 0
	SlotDebtBase       = 3
	SlotPoolAccountID  = 6
)

// UserLending is the storage layout of a user lending account.
type UserLending struct {
	Collateral    [3]Word // USDC, DAI, WETH
	Debt          [3]Word // USDC, DAI, WETH
	PoolAccountID Word
}

// NewUserLending returns a user layout with no positions, bound to the
// given pool account.
func NewUserLending(poolAccountID Word) UserLending {
	return UserLending{PoolAccountID: poolAccountID}
}

// Component lays the user state out as storage slots and attaches the
// compiled user lending library.
func (u UserLending) Component(lib assembler.Library) Component {
	slots := make([]Word, 0, 7)
	slots = append(slots, u.Collateral[:]...)
	slots = append(slots, u.Debt[:]...)
	slots = append(slots, u.PoolAccountID)
	return Component{Library: lib, Slots: slots}
}
