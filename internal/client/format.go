package client

import "fmt"

// AssetName maps a protocol asset ID to its symbol.
func AssetName(assetID uint32) string {
	switch assetID {
	case 1:
		return "USDC"
	case 2:
		return "DAI"
	case 3:
		return "WETH"
	case 4:
		return "WBTC"
	default:
		return "UNKNOWN"
	}
}

// FormatPrice renders a fixed-point price with 8 decimals.
func FormatPrice(price uint64) string {
	dollars := price / 100_000_000
	cents := price % 100_000_000
	return fmt.Sprintf("$%d.%08d", dollars, cents)
}

// FormatHealthFactor renders a health factor with 4 decimal places.
// Values at or above 1_000_000 mean the account has no debt.
func FormatHealthFactor(healthFactor uint64) string {
	const precision = 10000
	if healthFactor >= 1_000_000 {
		return "∞ (no debt)"
	}
	return fmt.Sprintf("%d.%04d", healthFactor/precision, healthFactor%precision)
}

// BasisPointsToPercentage renders basis points as a percentage.
func BasisPointsToPercentage(basisPoints uint64) string {
	return fmt.Sprintf("%d.%02d%%", basisPoints/100, basisPoints%100)
}
