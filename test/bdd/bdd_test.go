package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geflip-go/test/bdd/steps"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application", "features/daemon"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Domain scenarios register first so their step wording wins on overlap
	steps.InitializePricingScenario(sc)
	steps.InitializeBuyLimitScenario(sc)

	// Application scenarios share one wired application per scenario
	steps.InitializeExchangeScenario(sc)

	steps.InitializeHealthMonitorScenario(sc)
}

func TestMain(m *testing.M) {
	// One in-memory database for every scenario; tables are truncated between scenarios
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}
	defer helpers.CloseSharedTestDB()

	os.Exit(m.Run())
}
