// Package forecast runs a configuration through the projection engine and
// collects the headline figures together with the facts they depend on.
package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/wealth-math/internal/config"
	"github.com/iwvelando/wealth-math/internal/projection"
	"github.com/iwvelando/wealth-math/pkg/datetime"
	"go.uber.org/zap"
)

// Forecast holds the projection for a configuration as of a given day.
type Forecast struct {
	AsOf              time.Time         `json:"asOf"`
	Currency          string            `json:"currency"`
	Age               *int              `json:"age,omitempty"`
	RetirementAge     int               `json:"retirementAge"`
	YearsToRetirement *float64          `json:"yearsToRetirement"`
	InflationRate     float64           `json:"inflationRate"`
	Result            projection.Result `json:"result"`
	Warnings          []string          `json:"warnings,omitempty"`
}

// GetForecast validates the configuration and projects it as of now.
func GetForecast(logger *zap.Logger, conf config.Configuration, now time.Time) (Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	now = datetime.Today(now)

	if err := conf.Validate(); err != nil {
		return Forecast{}, err
	}

	age, err := conf.Profile.Age(now)
	if err != nil {
		return Forecast{}, err
	}
	horizon, err := conf.Profile.HorizonYears(now)
	if err != nil {
		return Forecast{}, err
	}
	if horizon == nil {
		logger.Debug("skipping totals because no retirement horizon is known",
			zap.String("op", "forecast.GetForecast"),
		)
	}

	collection, err := conf.ToCollection(now)
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to build instrument collection: %w", err)
	}

	engine := projection.NewEngine(logger, projection.WithClock(func() time.Time { return now }))
	result := engine.Project(collection.Instruments(), horizon, conf.Profile.InflationRatePercent())

	return Forecast{
		AsOf:              now,
		Currency:          conf.Profile.Currency,
		Age:               age,
		RetirementAge:     conf.Profile.RetirementAgeAt(age),
		YearsToRetirement: horizon,
		InflationRate:     conf.Profile.InflationRatePercent(),
		Result:            result,
		Warnings:          conf.ValidateConfiguration(now),
	}, nil
}
