package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geflip-go/internal/domain/trading"
)

type pricingContext struct {
	tax       int64
	marketBuy int64
	marketSel int64
	offerBuy  int64
	offerSell int64
}

func (ctx *pricingContext) reset() {
	*ctx = pricingContext{}
}

// InitializePricingScenario registers tax and offer placement steps
func InitializePricingScenario(sc *godog.ScenarioContext) {
	ctx := &pricingContext{}

	sc.Before(func(c ctxT, _ *godog.Scenario) (ctxT, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a unit sells for (\d+) gp$`, ctx.aUnitSellsFor)
	sc.Step(`^the exchange tax is (\d+) gp$`, ctx.theExchangeTaxIs)
	sc.Step(`^the market buys at (\d+) gp and sells at (\d+) gp$`, ctx.theMarketBuysAndSellsAt)
	sc.Step(`^offers are placed with aggressiveness ([\d.]+)$`, ctx.offersArePlacedWithAggressiveness)
	sc.Step(`^the buy offer is (\d+) gp and the sell offer is (\d+) gp$`, ctx.theOffersAre)
}

func (ctx *pricingContext) aUnitSellsFor(price int64) error {
	ctx.tax = trading.UnitTax(price)
	return nil
}

func (ctx *pricingContext) theExchangeTaxIs(expected int64) error {
	if ctx.tax != expected {
		return fmt.Errorf("expected tax %d, got %d", expected, ctx.tax)
	}
	return nil
}

func (ctx *pricingContext) theMarketBuysAndSellsAt(buy, sell int64) error {
	ctx.marketBuy, ctx.marketSel = buy, sell
	return nil
}

func (ctx *pricingContext) offersArePlacedWithAggressiveness(aggressiveness float64) error {
	ctx.offerBuy, ctx.offerSell = trading.ApplyAggressiveness(ctx.marketBuy, ctx.marketSel, aggressiveness)
	return nil
}

func (ctx *pricingContext) theOffersAre(buy, sell int64) error {
	if ctx.offerBuy != buy || ctx.offerSell != sell {
		return fmt.Errorf("expected offers %d/%d, got %d/%d", buy, sell, ctx.offerBuy, ctx.offerSell)
	}
	return nil
}
