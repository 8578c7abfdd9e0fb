package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTick(t *testing.T) {
	maturity := ExpiresIn(0.5)

	t.Run("defaults", func(t *testing.T) {
		tick := NewTick(100, maturity, 101, Call, Price(3))

		assert.Equal(t, DefaultRiskFreeRate, tick.RiskFreeRate)
		assert.Equal(t, DefaultDividendYield, tick.DividendYield)
		assert.Equal(t, NoSide, tick.Side)
		assert.Nil(t, tick.AdditionalData)
		assert.Equal(t, 0.5, tick.Tau())
		require.NoError(t, tick.Validate())
	})

	t.Run("options", func(t *testing.T) {
		tick := NewTick(100, maturity, 101, Put, ImpliedVolatility(0.2),
			WithRiskFreeRate(0.05), WithDividendYield(0.01), WithSide(Ask), WithOpenInterest(10), WithVolume(3))

		assert.Equal(t, 0.05, tick.RiskFreeRate)
		assert.Equal(t, 0.01, tick.DividendYield)
		assert.Equal(t, Ask, tick.Side)

		oi, ok := tick.OpenInterest()
		require.True(t, ok)
		assert.Equal(t, 10.0, oi)

		volume, ok := tick.Volume()
		require.True(t, ok)
		assert.Equal(t, 3.0, volume)
	})

	t.Run("conversions return new ticks", func(t *testing.T) {
		tick := NewTick(100, maturity, 101, Call, Price(3), WithSide(Bid))

		iv := tick.WithValue(ImpliedVolatility(0.3))
		assert.Equal(t, IVKind, iv.Kind())
		assert.Equal(t, PriceKind, tick.Kind())
		assert.Equal(t, 3.0, tick.GetValue())

		moved := tick.WithStrike(105).WithSide(NoSide)
		assert.Equal(t, 105.0, moved.Strike)
		assert.Equal(t, 100.0, tick.Strike)
		assert.Equal(t, Bid, tick.Side)
	})

	t.Run("validate", func(t *testing.T) {
		assert.Error(t, NewTick(100, maturity, 101, OptionType("straddle"), Price(3)).Validate())
		assert.Error(t, NewTick(100, maturity, 101, Call, Price(3), WithSide(OptionSide("mid"))).Validate())
		assert.Error(t, NewTick(100, maturity, 101, Call, nil).Validate())
		assert.Error(t, NewTick(0, maturity, 101, Call, Price(3)).Validate())
		assert.Error(t, NewTick(100, maturity, -1, Call, Price(3)).Validate())
	})

	t.Run("empty below epsilon", func(t *testing.T) {
		assert.True(t, NewTick(100, maturity, 101, Call, Price(Epsilon/2)).IsEmpty())
		assert.True(t, NewTick(100, maturity, 101, Call, nil).IsEmpty())
		assert.False(t, NewTick(100, maturity, 101, Call, Price(Epsilon)).IsEmpty())
	})

	t.Run("entry behaviour", func(t *testing.T) {
		tick := NewTick(100, maturity, 101, Call, Price(3))

		quote, err := tick.Quote()
		require.NoError(t, err)
		assert.Equal(t, tick, quote)

		replaced, err := tick.Upsert(tick.WithValue(Price(4)))
		require.NoError(t, err)
		assert.Equal(t, 4.0, replaced.GetValue())

		_, err = tick.Upsert(tick.WithStrike(105))
		assert.ErrorIs(t, err, KeyMismatchErr)

		kept, err := tick.Upsert(NewTick(100, maturity, -50, Call, Price(4)))
		assert.Error(t, err)
		assert.Equal(t, tick, kept)

		_, empty, err := tick.Delete(tick)
		require.NoError(t, err)
		assert.True(t, empty)

		_, err = Tick{}.Quote()
		assert.ErrorIs(t, err, MissingQuoteErr)
	})
}

func TestOptionValue(t *testing.T) {
	t.Run("variants", func(t *testing.T) {
		price, err := NewOptionValue(PriceKind, 2.5)
		require.NoError(t, err)
		assert.Equal(t, Price(2.5), price)
		assert.Equal(t, 2.5, ValueOf(price))

		iv, err := NewOptionValue(IVKind, 0.2)
		require.NoError(t, err)
		assert.Equal(t, ImpliedVolatility(0.2), iv)
		assert.Equal(t, IVKind, iv.Kind())

		_, err = NewOptionValue(ValueKind("delta"), 1)
		assert.Error(t, err)
		assert.Equal(t, 0.0, ValueOf(nil))
	})

	t.Run("epsilon is machine epsilon", func(t *testing.T) {
		assert.Equal(t, 2.220446049250313e-16, Epsilon)
	})
}
