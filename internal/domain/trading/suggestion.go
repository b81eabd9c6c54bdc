package trading

import "fmt"

// Suggestion is a single ranked flip opportunity.
//
// All fields are private with read-only getters. The guide price is the only
// value that may be attached after construction.
type Suggestion struct {
	itemID            int
	itemName          string
	buyLimit          *int64
	buyPrice          int64
	sellPrice         int64
	unitTax           int64
	unitProfit        int64
	unitROI           float64
	quantity          int64
	totalProfit       int64
	hourlyVolume      int64 // weaker of the two sides
	buyHourlyVolume   int64
	sellHourlyVolume  int64
	buyFillHours      float64
	sellFillHours     float64
	expectedFillHours float64
	profitPerHour     float64
	remainingLimit    *int64
	priceSource       PriceSource
	guidePrice        *int64
}

func (s *Suggestion) ItemID() int {
	return s.itemID
}

func (s *Suggestion) ItemName() string {
	return s.itemName
}

// BuyLimit returns the item's purchase cap, or nil when unknown
func (s *Suggestion) BuyLimit() *int64 {
	return s.buyLimit
}

func (s *Suggestion) BuyPrice() int64 {
	return s.buyPrice
}

func (s *Suggestion) SellPrice() int64 {
	return s.sellPrice
}

func (s *Suggestion) UnitTax() int64 {
	return s.unitTax
}

func (s *Suggestion) UnitProfit() int64 {
	return s.unitProfit
}

func (s *Suggestion) UnitROI() float64 {
	return s.unitROI
}

func (s *Suggestion) Quantity() int64 {
	return s.quantity
}

func (s *Suggestion) TotalProfit() int64 {
	return s.totalProfit
}

func (s *Suggestion) HourlyVolume() int64 {
	return s.hourlyVolume
}

func (s *Suggestion) BuyHourlyVolume() int64 {
	return s.buyHourlyVolume
}

func (s *Suggestion) SellHourlyVolume() int64 {
	return s.sellHourlyVolume
}

func (s *Suggestion) BuyFillHours() float64 {
	return s.buyFillHours
}

func (s *Suggestion) SellFillHours() float64 {
	return s.sellFillHours
}

func (s *Suggestion) ExpectedFillHours() float64 {
	return s.expectedFillHours
}

func (s *Suggestion) ProfitPerHour() float64 {
	return s.profitPerHour
}

// RemainingLimit returns the remaining allowance that constrained the quantity, if one was supplied
func (s *Suggestion) RemainingLimit() *int64 {
	return s.remainingLimit
}

func (s *Suggestion) PriceSource() PriceSource {
	return s.priceSource
}

// GuidePrice returns the official reference price, if attached
func (s *Suggestion) GuidePrice() *int64 {
	return s.guidePrice
}

// SetGuidePrice attaches the official reference price (called by enrichment after ranking)
func (s *Suggestion) SetGuidePrice(price *int64) {
	s.guidePrice = price
}

// TotalCost returns quantity × buy price
func (s *Suggestion) TotalCost() int64 {
	return s.quantity * s.buyPrice
}

func (s *Suggestion) String() string {
	return fmt.Sprintf("%s (#%d): buy %d sell %d x%d profit %d (%.2f%%) %.0f gp/h",
		s.itemName, s.itemID, s.buyPrice, s.sellPrice, s.quantity,
		s.totalProfit, s.unitROI*100, s.profitPerHour)
}
