package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geflip-go/internal/app"
	alertCommands "github.com/andrescamacho/geflip-go/internal/application/alert/commands"
	alertQueries "github.com/andrescamacho/geflip-go/internal/application/alert/queries"
	alertTypes "github.com/andrescamacho/geflip-go/internal/application/alert/types"
	ledgerCommands "github.com/andrescamacho/geflip-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	ledgerTypes "github.com/andrescamacho/geflip-go/internal/application/ledger/types"
	limitsCommands "github.com/andrescamacho/geflip-go/internal/application/limits/commands"
	tradingQueries "github.com/andrescamacho/geflip-go/internal/application/trading/queries"
	tradingTypes "github.com/andrescamacho/geflip-go/internal/application/trading/types"
	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/pkg/utils"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

// exchangeNowUnix is the frozen time every exchange scenario runs at
const exchangeNowUnix = 1_700_000_000

// exchangeContext drives the wired application through its mediator
type exchangeContext struct {
	app   *app.App
	feed  *helpers.FakePriceFeed
	clock *shared.MockClock
	names map[string]int

	suggestions []*tradingTypes.SuggestionDTO
	triggered   []*alertTypes.AlertDTO
	flip        *ledgerTypes.FlipDTO
	summary     *ledgerQueries.GetFlipSummaryResponse
	err         error
}

func (ctx *exchangeContext) reset() error {
	ctx.close()
	*ctx = exchangeContext{names: make(map[string]int)}
	return helpers.TruncateAllTables()
}

func (ctx *exchangeContext) close() {
	if ctx.app != nil {
		_ = ctx.app.Close()
		ctx.app = nil
	}
}

// InitializeExchangeScenario registers steps for suggestions, alerts and the flip ledger
func InitializeExchangeScenario(sc *godog.ScenarioContext) {
	ctx := &exchangeContext{}

	sc.Before(func(c ctxT, _ *godog.Scenario) (ctxT, error) {
		return c, ctx.reset()
	})
	sc.After(func(c ctxT, _ *godog.Scenario, _ error) (ctxT, error) {
		ctx.close()
		return c, nil
	})

	sc.Step(`^the exchange lists the following items:$`, ctx.theExchangeListsTheFollowingItems)

	sc.Step(`^I recorded a buy of (\d+) "([^"]*)"$`, ctx.iRecordedABuyOf)
	sc.Step(`^I ask for suggestions with a budget of "([^"]*)"$`, ctx.iAskForSuggestions)
	sc.Step(`^I ask for suggestions for "([^"]*)" only with a budget of "([^"]*)"$`, ctx.iAskForSuggestionsFor)
	sc.Step(`^the suggestions are, in order:$`, ctx.theSuggestionsAreInOrder)
	sc.Step(`^the suggestion for "([^"]*)" buys (\d+) at (\d+) gp and sells at (\d+) gp$`, ctx.theSuggestionBuys)
	sc.Step(`^the suggestion for "([^"]*)" makes (\d+) gp per unit and (\d+) gp in total$`, ctx.theSuggestionMakes)

	sc.Step(`^an alert when "([^"]*)" goes (above|below) (\d+) gp$`, ctx.anAlertWhen)
	sc.Step(`^alerts are checked$`, ctx.alertsAreChecked)
	sc.Step(`^(\d+) alerts? (?:is|are) triggered$`, ctx.alertsAreTriggered)
	sc.Step(`^(\d+) alerts? (?:is|are) triggered at (\d+) gp$`, ctx.alertsAreTriggeredAt)
	sc.Step(`^there are no active alerts$`, func() error { return ctx.thereAreActiveAlerts(0) })
	sc.Step(`^there (?:is|are) (\d+) active alerts?$`, ctx.thereAreActiveAlerts)

	sc.Step(`^I log a flip of (\d+) "([^"]*)" bought at (\d+) gp and sold at (\d+) gp$`, ctx.iLogAFlip)
	sc.Step(`^I log a flip of (\d+) "([^"]*)" bought at (\d+) gp and sold at (\d+) gp, sold an hour before it was bought$`, ctx.iLogABackdatedFlip)
	sc.Step(`^the logged flip cost (\d+) gp and made (\d+) gp$`, ctx.theLoggedFlipCostAndMade)
	sc.Step(`^the flip is rejected$`, ctx.theFlipIsRejected)
	sc.Step(`^I summarise my flips$`, ctx.iSummariseMyFlips)
	sc.Step(`^the summary shows (\d+) flips costing (\d+) gp with (\d+) gp profit$`, ctx.theSummaryShows)
}

func (ctx *exchangeContext) theExchangeListsTheFollowingItems(table *godog.Table) error {
	ctx.feed = helpers.NewFakePriceFeed()
	ctx.clock = shared.NewMockClockAtUnix(exchangeNowUnix)

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.Value
		}
		if len(cells) != 6 {
			return fmt.Errorf("expected 6 columns, got %d", len(cells))
		}
		nums := make([]int64, 0, 5)
		for _, idx := range []int{0, 2, 3, 4, 5} {
			n, err := strconv.ParseInt(cells[idx], 10, 64)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			nums = append(nums, n)
		}
		id := int(nums[0])
		ctx.feed.AddFlippable(id, cells[1], nums[1], nums[2], nums[3], nums[4], exchangeNowUnix-60)
		ctx.names[cells[1]] = id
	}

	cfg := &config.Config{}
	cfg.Limits.Source = "database"
	config.SetDefaults(cfg)

	a, err := app.New(context.Background(), cfg,
		app.WithDB(helpers.SharedTestDB),
		app.WithFeed(ctx.feed),
		app.WithClock(ctx.clock),
	)
	if err != nil {
		return err
	}
	ctx.app = a
	return nil
}

func (ctx *exchangeContext) itemID(name string) (int, error) {
	id, ok := ctx.names[name]
	if !ok {
		return 0, fmt.Errorf("item %q is not listed", name)
	}
	return id, nil
}

func (ctx *exchangeContext) iRecordedABuyOf(quantity int64, name string) error {
	id, err := ctx.itemID(name)
	if err != nil {
		return err
	}
	_, err = ctx.app.Mediator.Send(context.Background(), &limitsCommands.RecordPurchaseCommand{
		ItemID:   id,
		Quantity: quantity,
		Kind:     "buy",
	})
	return err
}

func (ctx *exchangeContext) suggest(budget string, ids []int) error {
	amount, err := utils.ParseGP(budget)
	if err != nil {
		return err
	}
	resp, err := ctx.app.Mediator.Send(context.Background(), &tradingQueries.GenerateSuggestionsQuery{
		Budget:  amount,
		ItemIDs: ids,
	})
	if err != nil {
		return err
	}
	ctx.suggestions = resp.(*tradingQueries.GenerateSuggestionsResponse).Suggestions
	return nil
}

func (ctx *exchangeContext) iAskForSuggestions(budget string) error {
	return ctx.suggest(budget, nil)
}

func (ctx *exchangeContext) iAskForSuggestionsFor(name, budget string) error {
	id, err := ctx.itemID(name)
	if err != nil {
		return err
	}
	return ctx.suggest(budget, []int{id})
}

func (ctx *exchangeContext) theSuggestionsAreInOrder(table *godog.Table) error {
	var want []string
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		want = append(want, row.Cells[0].Value)
	}
	got := make([]string, len(ctx.suggestions))
	for i, s := range ctx.suggestions {
		got[i] = s.ItemName
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("expected suggestions %v, got %v", want, got)
	}
	return nil
}

func (ctx *exchangeContext) suggestionFor(name string) (*tradingTypes.SuggestionDTO, error) {
	for _, s := range ctx.suggestions {
		if s.ItemName == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no suggestion for %q", name)
}

func (ctx *exchangeContext) theSuggestionBuys(name string, quantity, buy, sell int64) error {
	s, err := ctx.suggestionFor(name)
	if err != nil {
		return err
	}
	if s.Quantity != quantity || s.BuyPrice != buy || s.SellPrice != sell {
		return fmt.Errorf("expected %d @ %d -> %d, got %d @ %d -> %d",
			quantity, buy, sell, s.Quantity, s.BuyPrice, s.SellPrice)
	}
	return nil
}

func (ctx *exchangeContext) theSuggestionMakes(name string, unitProfit, totalProfit int64) error {
	s, err := ctx.suggestionFor(name)
	if err != nil {
		return err
	}
	if s.UnitProfit != unitProfit || s.TotalProfit != totalProfit {
		return fmt.Errorf("expected %d per unit and %d total, got %d and %d",
			unitProfit, totalProfit, s.UnitProfit, s.TotalProfit)
	}
	return nil
}

func (ctx *exchangeContext) anAlertWhen(name, direction string, price int64) error {
	id, err := ctx.itemID(name)
	if err != nil {
		return err
	}
	_, err = ctx.app.Mediator.Send(context.Background(), &alertCommands.CreateAlertCommand{
		ItemID:      id,
		Direction:   direction,
		TargetPrice: price,
	})
	return err
}

func (ctx *exchangeContext) alertsAreChecked() error {
	resp, err := ctx.app.Mediator.Send(context.Background(), &alertCommands.CheckAlertsCommand{})
	if err != nil {
		return err
	}
	ctx.triggered = resp.(*alertCommands.CheckAlertsResponse).Triggered
	return nil
}

func (ctx *exchangeContext) alertsAreTriggered(count int) error {
	if len(ctx.triggered) != count {
		return fmt.Errorf("expected %d triggered alerts, got %d", count, len(ctx.triggered))
	}
	return nil
}

func (ctx *exchangeContext) alertsAreTriggeredAt(count int, price int64) error {
	if err := ctx.alertsAreTriggered(count); err != nil {
		return err
	}
	for _, a := range ctx.triggered {
		if a.TriggeredPrice == nil || *a.TriggeredPrice != price {
			return fmt.Errorf("alert %s did not fire at %d", a.ID, price)
		}
	}
	return nil
}

func (ctx *exchangeContext) thereAreActiveAlerts(count int) error {
	resp, err := ctx.app.Mediator.Send(context.Background(), &alertQueries.ListAlertsQuery{ActiveOnly: true})
	if err != nil {
		return err
	}
	if got := len(resp.(*alertQueries.ListAlertsResponse).Alerts); got != count {
		return fmt.Errorf("expected %d active alerts, got %d", count, got)
	}
	return nil
}

func (ctx *exchangeContext) logFlip(quantity int64, name string, buy, sell int64, boughtAt, soldAt *time.Time) error {
	id, err := ctx.itemID(name)
	if err != nil {
		return err
	}
	resp, err := ctx.app.Mediator.Send(context.Background(), &ledgerCommands.LogFlipCommand{
		ItemID:    id,
		Quantity:  quantity,
		BuyPrice:  buy,
		SellPrice: sell,
		BoughtAt:  boughtAt,
		SoldAt:    soldAt,
	})
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.flip = resp.(*ledgerCommands.LogFlipResponse).Flip
	return nil
}

func (ctx *exchangeContext) iLogAFlip(quantity int64, name string, buy, sell int64) error {
	if err := ctx.logFlip(quantity, name, buy, sell, nil, nil); err != nil {
		return err
	}
	return ctx.err
}

func (ctx *exchangeContext) iLogABackdatedFlip(quantity int64, name string, buy, sell int64) error {
	bought := ctx.clock.Now()
	sold := bought.Add(-time.Hour)
	return ctx.logFlip(quantity, name, buy, sell, &bought, &sold)
}

func (ctx *exchangeContext) theLoggedFlipCostAndMade(cost, profit int64) error {
	if ctx.flip == nil {
		return fmt.Errorf("no flip was logged: %v", ctx.err)
	}
	if ctx.flip.Cost != cost || ctx.flip.Profit != profit {
		return fmt.Errorf("expected cost %d and profit %d, got %d and %d", cost, profit, ctx.flip.Cost, ctx.flip.Profit)
	}
	return nil
}

func (ctx *exchangeContext) theFlipIsRejected() error {
	var invalid *ledger.ErrInvalidFlip
	if !errors.As(ctx.err, &invalid) {
		return fmt.Errorf("expected an invalid flip error, got %v", ctx.err)
	}
	return nil
}

func (ctx *exchangeContext) iSummariseMyFlips() error {
	resp, err := ctx.app.Mediator.Send(context.Background(), &ledgerQueries.GetFlipSummaryQuery{})
	if err != nil {
		return err
	}
	ctx.summary = resp.(*ledgerQueries.GetFlipSummaryResponse)
	return nil
}

func (ctx *exchangeContext) theSummaryShows(count int, cost, profit int64) error {
	s := ctx.summary
	if s.Count != count || s.TotalCost != cost || s.TotalProfit != profit {
		return fmt.Errorf("expected %d flips, cost %d, profit %d; got %d, %d, %d",
			count, cost, profit, s.Count, s.TotalCost, s.TotalProfit)
	}
	return nil
}
