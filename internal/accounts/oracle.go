package accounts

import "github.com/lendfi/lendclient/internal/assembler"

// Price oracle storage slots.
const (
	SlotUSDCPrice  = 0 // USDC price, 8 decimals
	SlotDAIPrice   = 1 // DAI price, 8 decimals
	SlotWETHPrice  = 2 // WETH price, 8 decimals
	SlotLastUpdate = 3 // last update timestamp
)

// PriceOracle is the storage layout of the price oracle account.
type PriceOracle struct {
	Prices     [3]Word // indexed by SlotUSDCPrice..SlotWETHPrice
	LastUpdate Word
}

// NewPriceOracle returns an oracle with zeroed prices.
func NewPriceOracle() PriceOracle {
	return PriceOracle{}
}

// WithPrices returns an oracle seeded with initial prices (8 decimals).
func WithPrices(usdc, dai, weth uint64) PriceOracle {
	var o PriceOracle
	o.Prices[SlotUSDCPrice] = Word{usdc}
	o.Prices[SlotDAIPrice] = Word{dai}
	o.Prices[SlotWETHPrice] = Word{weth}
	return o
}

// Component lays the prices and timestamp out as storage slots and
// attaches the compiled price oracle library.
func (o PriceOracle) Component(lib assembler.Library) Component {
	slots := make([]Word, 0, len(o.Prices)+1)
	slots = append(slots, o.Prices[:]...)
	slots = append(slots, o.LastUpdate)
	return Component{Library: lib, Slots: slots}
}
