package trading

import "sort"

// RankSuggestions orders suggestions best first: profit per hour, then total
// profit, then unit ROI, all descending. Item id ascending breaks any remaining
// tie so the order never depends on input order.
func RankSuggestions(suggestions []*Suggestion) {
	sort.Slice(suggestions, func(i, j int) bool {
		return ranksBefore(suggestions[i], suggestions[j])
	})
}

func ranksBefore(a, b *Suggestion) bool {
	if a.profitPerHour != b.profitPerHour {
		return a.profitPerHour > b.profitPerHour
	}
	if a.totalProfit != b.totalProfit {
		return a.totalProfit > b.totalProfit
	}
	if a.unitROI != b.unitROI {
		return a.unitROI > b.unitROI
	}
	return a.itemID < b.itemID
}

// Truncate keeps the first max(1, topN) suggestions
func Truncate(suggestions []*Suggestion, topN int) []*Suggestion {
	n := max(1, topN)
	if len(suggestions) > n {
		return suggestions[:n]
	}
	return suggestions
}
