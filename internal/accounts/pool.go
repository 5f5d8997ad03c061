package accounts

import "github.com/lendfi/lendclient/internal/assembler"

// Reserve slot counts per asset. Each reserve spans consecutive slots
// holding total_liquidity, total_borrowed, liquidity_rate, borrow_rate,
// last_update_timestamp, liquidity_index and borrow_index.
const (
	usdcReserveSlots = 7
	daiReserveSlots  = 6
	wethReserveSlots = 6
)

// LendingPool is the storage layout of the lending pool account.
// USDC occupies slots 0-6, DAI slots 7-12, WETH slots 13-18.
type LendingPool struct {
	USDCReserve []Word
	DAIReserve  []Word
	WETHReserve []Word
}

// NewLendingPool returns a pool with empty reserves.
func NewLendingPool() LendingPool {
	return LendingPool{
		USDCReserve: make([]Word, usdcReserveSlots),
		DAIReserve:  make([]Word, daiReserveSlots),
		WETHReserve: make([]Word, wethReserveSlots),
	}
}

// WithReserves returns a pool with custom initial reserve values.
func WithReserves(usdc, dai, weth []Word) LendingPool {
	return LendingPool{USDCReserve: usdc, DAIReserve: dai, WETHReserve: weth}
}

// Component lays the reserves out as consecutive storage slots and
// attaches the compiled lending pool library.
func (p LendingPool) Component(lib assembler.Library) Component {
	slots := make([]Word, 0, len(p.USDCReserve)+len(p.DAIReserve)+len(p.WETHReserve))
	slots = append(slots, p.USDCReserve...)
	slots = append(slots, p.DAIReserve...)
	slots = append(slots, p.WETHReserve...)
	return Component{Library: lib, Slots: slots}
}
