package portfolio

import (
	"math"

	"github.com/shopspring/decimal"
)

func decFromFloat(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val)
}

func decToFloat(val decimal.Decimal) float64 {
	f, _ := val.Float64()
	return f
}

// weightedAverage computes (oldAvg*oldQty + price*addQty) / (oldQty+addQty)
// in decimal space so long fill sequences do not drift the cost basis.
func weightedAverage(oldAvg, oldQty, price, addQty float64) float64 {
	newQty := decFromFloat(oldQty).Add(decFromFloat(addQty))
	if newQty.IsZero() {
		return 0
	}
	notional := decFromFloat(oldAvg).Mul(decFromFloat(oldQty)).
		Add(decFromFloat(price).Mul(decFromFloat(addQty)))
	return decToFloat(notional.Div(newQty))
}

// realizedProfit computes (avg - price) * closingQty * multiplier; the sign
// convention yields positive values for profitable closes.
func realizedProfit(avg, price, closingQty, multiplier float64) float64 {
	return decToFloat(decFromFloat(avg).Sub(decFromFloat(price)).
		Mul(decFromFloat(closingQty)).Mul(decFromFloat(multiplier)))
}
