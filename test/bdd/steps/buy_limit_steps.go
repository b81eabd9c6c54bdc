package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geflip-go/internal/domain/limits"
)

// ctxT keeps hook signatures short
type ctxT = context.Context

type buyLimitContext struct {
	now       time.Time
	caps      map[int]int64
	events    []limits.PurchaseEvent
	allowance limits.Allowance
}

func (ctx *buyLimitContext) reset() {
	ctx.now = time.Time{}
	ctx.caps = make(map[int]int64)
	ctx.events = nil
	ctx.allowance = nil
}

// InitializeBuyLimitScenario registers steps for the trailing-window allowance
func InitializeBuyLimitScenario(sc *godog.ScenarioContext) {
	ctx := &buyLimitContext{}

	sc.Before(func(c ctxT, _ *godog.Scenario) (ctxT, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^the current time is (\d+)$`, ctx.theCurrentTimeIs)
	sc.Step(`^item (\d+) has a buy limit of (\d+)$`, ctx.itemHasABuyLimitOf)
	sc.Step(`^a (buy|sell) of (\d+) units of item (\d+) at (\d+)$`, ctx.anEventAt)
	sc.Step(`^remaining limits are computed$`, ctx.remainingLimitsAreComputed)
	sc.Step(`^item (\d+) can still be bought (\d+) times$`, ctx.itemCanStillBeBought)
	sc.Step(`^item (\d+) is unconstrained$`, ctx.itemIsUnconstrained)
}

func (ctx *buyLimitContext) theCurrentTimeIs(unix int64) error {
	ctx.now = time.Unix(unix, 0)
	return nil
}

func (ctx *buyLimitContext) itemHasABuyLimitOf(itemID int, limit int64) error {
	ctx.caps[itemID] = limit
	return nil
}

func (ctx *buyLimitContext) anEventAt(kind string, quantity int64, itemID int, unix int64) error {
	k, err := limits.ParseEventKind(kind)
	if err != nil {
		return err
	}
	event, err := limits.NewPurchaseEvent(itemID, quantity, k, time.Unix(unix, 0))
	if err != nil {
		return err
	}
	ctx.events = append(ctx.events, event)
	return nil
}

func (ctx *buyLimitContext) remainingLimitsAreComputed() error {
	ctx.allowance = limits.ComputeRemaining(ctx.events, ctx.caps, ctx.now, limits.DefaultWindow)
	return nil
}

func (ctx *buyLimitContext) itemCanStillBeBought(itemID int, expected int64) error {
	remaining, ok := ctx.allowance.For(itemID)
	if !ok {
		return fmt.Errorf("item %d has no allowance entry", itemID)
	}
	if remaining != expected {
		return fmt.Errorf("expected %d remaining for item %d, got %d", expected, itemID, remaining)
	}
	return nil
}

func (ctx *buyLimitContext) itemIsUnconstrained(itemID int) error {
	if remaining, ok := ctx.allowance.For(itemID); ok {
		return fmt.Errorf("expected item %d to be unconstrained, got %d remaining", itemID, remaining)
	}
	return nil
}
