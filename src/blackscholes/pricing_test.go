package blackscholes

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/option-analytics/src/models"
)

const relativeThreshold = 1e-3

func assertRelative(t *testing.T, expected, actual float64, msgAndArgs ...interface{}) {
	t.Helper()
	diff := math.Abs(actual - expected)
	assert.LessOrEqual(t, diff, relativeThreshold*math.Abs(expected), msgAndArgs...)
}

func referenceTick(optionType models.OptionType) models.Tick {
	return models.NewTick(250, models.ExpiresIn(30.0/365.0), 100, optionType, models.ImpliedVolatility(10))
}

func TestPrice(t *testing.T) {
	t.Run("reference call and put", func(t *testing.T) {
		call, err := TheoreticalPrice(referenceTick(models.Call))
		require.NoError(t, err)
		assert.Equal(t, models.PriceKind, call.Kind())
		assertRelative(t, 76.7847, call.GetValue())

		put, err := TheoreticalPrice(referenceTick(models.Put))
		require.NoError(t, err)
		assertRelative(t, 226.7641, put.GetValue())
	})

	t.Run("put-call parity", func(t *testing.T) {
		p := Params{S: 100, K: 105, Tau: 0.5, R: 0.03, Q: 0.01, Sigma: 0.25, Type: models.Call}

		call, err := Price(p)
		require.NoError(t, err)

		p.Type = models.Put
		put, err := Price(p)
		require.NoError(t, err)

		parity := p.S*math.Exp(-p.Q*p.Tau) - p.K*math.Exp(-p.R*p.Tau)
		assert.InDelta(t, parity, call-put, 1e-9)
		assert.InDelta(t, 5.349804578881077, call, 1e-9)
		assert.InDelta(t, 9.285310317934403, put, 1e-9)
	})

	t.Run("price tick is returned unchanged", func(t *testing.T) {
		tick := models.NewTick(100, models.ExpiresIn(0.25), 100, models.Call, models.Price(4.2))

		out, err := TheoreticalPrice(tick)
		require.NoError(t, err)
		assert.Equal(t, tick, out)
	})

	t.Run("conversion does not mutate the input", func(t *testing.T) {
		tick := referenceTick(models.Call)

		_, err := TheoreticalPrice(tick)
		require.NoError(t, err)
		assert.Equal(t, models.IVKind, tick.Kind())
		assert.Equal(t, 10.0, tick.GetValue())
	})

	t.Run("expired maturity is undefined", func(t *testing.T) {
		tick := models.NewTick(100, models.ExpiresIn(0), 100, models.Call, models.ImpliedVolatility(0.2))

		_, err := TheoreticalPrice(tick)
		assert.ErrorIs(t, err, models.UndefinedGreekErr)
	})

	t.Run("non-positive sigma is undefined", func(t *testing.T) {
		tick := models.NewTick(100, models.ExpiresIn(0.5), 100, models.Put, models.ImpliedVolatility(0))

		_, err := TheoreticalPrice(tick)
		assert.ErrorIs(t, err, models.UndefinedGreekErr)
	})

	t.Run("absolute maturity uses the package clock", func(t *testing.T) {
		now := time.Date(2024, time.January, 2, 15, 0, 0, 0, time.UTC)
		clock := models.Now
		defer func() { models.Now = clock }()
		models.Now = func() time.Time { return now }

		absolute := models.NewTick(105, models.ExpiresAt(now.Add(182*24*time.Hour+12*time.Hour)), 100, models.Call, models.ImpliedVolatility(0.25),
			models.WithRiskFreeRate(0.03), models.WithDividendYield(0.01))
		fraction := absolute
		fraction.Maturity = models.ExpiresIn(0.5)

		a, err := TheoreticalPrice(absolute)
		require.NoError(t, err)

		f, err := TheoreticalPrice(fraction)
		require.NoError(t, err)

		assert.InDelta(t, f.GetValue(), a.GetValue(), 1e-9)
	})
}
