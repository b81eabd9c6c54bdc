package trading

const (
	// TaxRate is the exchange tax charged on each unit sold
	TaxRate = 0.02

	// TaxCap is the maximum tax charged per unit
	TaxCap int64 = 5_000_000

	// maxSpreadShift is the share of the spread each side moves at full aggressiveness
	maxSpreadShift = 0.25
)

// UnitTax returns the tax charged on one unit sold at sellPrice
func UnitTax(sellPrice int64) int64 {
	return min(int64(float64(sellPrice)*TaxRate), TaxCap)
}

// ApplyAggressiveness moves the buy price up and the sell price down by
// trunc(spread * 0.25 * aggressiveness) each. The unadjusted pair is returned
// when inputs are not a profitable pair or the adjustment would close the spread.
func ApplyAggressiveness(buy, sell int64, aggressiveness float64) (int64, int64) {
	if buy <= 0 || sell <= 0 || sell <= buy {
		return buy, sell
	}
	a := clampUnit(aggressiveness)
	shift := int64(float64(sell-buy) * maxSpreadShift * a)

	adjBuy, adjSell := buy+shift, sell-shift
	if adjSell <= adjBuy {
		return buy, sell
	}
	return adjBuy, adjSell
}

// floorDiv divides rounding towards negative infinity
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampUnit(v float64) float64 {
	return max(0, min(1, v))
}
