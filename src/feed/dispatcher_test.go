package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/option-analytics/src/models"
	"github.com/jiaming2012/option-analytics/src/optionchain"
)

func TestDispatcher(t *testing.T) {
	t.Run("handlers see ticks in publish order", func(t *testing.T) {
		dispatcher := NewDispatcher()

		var strikes []float64
		require.NoError(t, dispatcher.Subscribe(func(tick models.Tick) {
			strikes = append(strikes, tick.Strike)
		}))

		ticks, err := ReadTicks(strings.NewReader(quotesCsv))
		require.NoError(t, err)

		dispatcher.PublishAll(ticks)
		assert.Equal(t, []float64{100, 100, 95}, strikes)
	})

	t.Run("board subscriber", func(t *testing.T) {
		dispatcher := NewDispatcher()
		board := optionchain.NewBookBoard()

		subscriber, err := SubscribeBoard(dispatcher, board)
		require.NoError(t, err)

		maturity := models.ExpiresIn(0.25)
		dispatcher.Publish(models.NewTick(100, maturity, 100, models.Call, models.Price(3), models.WithSide(models.Bid)))
		dispatcher.Publish(models.NewTick(100, maturity, 100, models.Call, models.Price(4), models.WithSide(models.Ask)))
		dispatcher.Publish(models.NewTick(100, maturity, 100, models.Call, models.Price(2), models.WithSide(models.OptionSide("mid"))))

		assert.Equal(t, 2, subscriber.Applied)
		assert.Equal(t, 1, subscriber.Dropped)

		chain, err := board.FrontMonth()
		require.NoError(t, err)

		book, ok := chain.Get(100, models.Call)
		require.True(t, ok)

		mid, err := book.Mid()
		require.NoError(t, err)
		assert.Equal(t, 3.5, mid.GetValue())
	})
}
