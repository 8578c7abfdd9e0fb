package blackscholes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/option-analytics/src/models"
)

func TestImpliedVolatility(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cases := []struct {
			name  string
			tick  models.Tick
			sigma float64
		}{
			{"reference call", referenceTick(models.Call), 10},
			{"reference put", referenceTick(models.Put), 10},
			{"near the money call", models.NewTick(105, models.ExpiresIn(0.5), 100, models.Call, models.ImpliedVolatility(0.25), models.WithRiskFreeRate(0.03), models.WithDividendYield(0.01)), 0.25},
			{"near the money put", models.NewTick(105, models.ExpiresIn(0.5), 100, models.Put, models.ImpliedVolatility(0.25), models.WithRiskFreeRate(0.03), models.WithDividendYield(0.01)), 0.25},
			{"out of the money put", models.NewTick(80, models.ExpiresIn(0.1), 100, models.Put, models.ImpliedVolatility(0.45)), 0.45},
			{"in the money call", models.NewTick(90, models.ExpiresIn(1), 100, models.Call, models.ImpliedVolatility(0.15)), 0.15},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				priced, err := TheoreticalPrice(c.tick)
				require.NoError(t, err)

				solved, err := ImpliedVolatilityTick(priced)
				require.NoError(t, err)

				assert.Equal(t, models.IVKind, solved.Kind())
				assert.InDelta(t, c.sigma, solved.GetValue(), 1e-6)
				assert.Equal(t, models.PriceKind, priced.Kind())
			})
		}
	})

	t.Run("put is solved on the put branch", func(t *testing.T) {
		tick := models.NewTick(105, models.ExpiresIn(0.5), 100, models.Put, models.Price(9.285310317934403),
			models.WithRiskFreeRate(0.03), models.WithDividendYield(0.01))

		sigma, err := ImpliedVolatility(tick)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, sigma, 1e-6)
	})

	t.Run("implied volatility tick is returned unchanged", func(t *testing.T) {
		tick := referenceTick(models.Call)

		out, err := ImpliedVolatilityTick(tick)
		require.NoError(t, err)
		assert.Equal(t, tick, out)
	})

	t.Run("price above the no-arbitrage bound does not converge", func(t *testing.T) {
		tick := models.NewTick(100, models.ExpiresIn(0.5), 100, models.Call, models.Price(150))

		_, err := ImpliedVolatility(tick)
		assert.ErrorIs(t, err, models.NonConvergenceErr)
	})

	t.Run("price below intrinsic value does not converge", func(t *testing.T) {
		tick := models.NewTick(150, models.ExpiresIn(0.5), 100, models.Put, models.Price(10))

		_, err := ImpliedVolatility(tick)
		assert.ErrorIs(t, err, models.NonConvergenceErr)
	})

	t.Run("iteration cap is reported", func(t *testing.T) {
		solver := Solver{InitialGuess: 3, Tolerance: 1e-12, MaxIterations: 1}
		tick := models.NewTick(105, models.ExpiresIn(0.5), 100, models.Call, models.Price(5.349804578881077),
			models.WithRiskFreeRate(0.03), models.WithDividendYield(0.01))

		_, err := solver.SolveTick(tick)
		assert.ErrorIs(t, err, models.NonConvergenceErr)
	})

	t.Run("custom initial guess converges", func(t *testing.T) {
		solver := Solver{InitialGuess: 0.5, Tolerance: 1e-10, MaxIterations: 50}
		p := Params{S: 100, K: 105, Tau: 0.5, R: 0.03, Q: 0.01, Type: models.Call}

		sigma, err := solver.Solve(p, 5.349804578881077)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, sigma, 1e-8)
	})

	t.Run("invalid solver", func(t *testing.T) {
		_, err := Solver{Tolerance: 0, MaxIterations: 10}.Solve(Params{S: 100, K: 100, Tau: 1, Type: models.Call}, 5)
		assert.Error(t, err)
	})
}
