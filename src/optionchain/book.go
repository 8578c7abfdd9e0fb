package optionchain

import (
	"fmt"

	"github.com/jiaming2012/option-analytics/src/models"
)

type bookKey struct {
	kind models.ValueKind
	side models.OptionSide
}

func keyOf(tick models.Tick) bookKey {
	return bookKey{kind: tick.Kind(), side: tick.Side}
}

// Book holds the quotes of one contract (strike, maturity, option type), at most one per
// value kind and side.
type Book struct {
	strike     float64
	maturity   models.Maturity
	optionType models.OptionType
	quotes     map[bookKey]models.Tick
}

// NewBook creates a book for the contract quoted by tick and stores tick in it.
func NewBook(tick models.Tick) (*Book, error) {
	if err := tick.Validate(); err != nil {
		return nil, fmt.Errorf("NewBook: %w", err)
	}

	b := &Book{
		strike:     tick.Strike,
		maturity:   tick.Maturity,
		optionType: tick.OptionType,
		quotes:     make(map[bookKey]models.Tick),
	}

	if _, err := b.Upsert(tick); err != nil {
		return nil, fmt.Errorf("NewBook: %w", err)
	}

	return b, nil
}

func (b *Book) GetStrike() float64 {
	return b.strike
}

func (b *Book) GetMaturity() models.Maturity {
	return b.maturity
}

func (b *Book) GetOptionType() models.OptionType {
	return b.optionType
}

func (b *Book) Len() int {
	return len(b.quotes)
}

// Ticks returns every stored quote, bids before asks and prices before implied volatilities.
func (b *Book) Ticks() []models.Tick {
	var ticks []models.Tick
	for _, kind := range []models.ValueKind{models.PriceKind, models.IVKind} {
		for _, side := range []models.OptionSide{models.Bid, models.Ask, models.NoSide} {
			if tick, ok := b.quotes[bookKey{kind: kind, side: side}]; ok {
				ticks = append(ticks, tick)
			}
		}
	}

	return ticks
}

func (b *Book) matches(tick models.Tick) bool {
	return tick.Strike == b.strike && tick.Maturity == b.maturity && tick.OptionType == b.optionType
}

// workingKind is Price when the book holds any price quote, otherwise ImpliedVolatility.
func (b *Book) workingKind() models.ValueKind {
	for key := range b.quotes {
		if key.kind == models.PriceKind {
			return models.PriceKind
		}
	}

	return models.IVKind
}

func (b *Book) best(side models.OptionSide, better func(candidate, current float64) bool) (models.Tick, error) {
	kind := b.workingKind()

	var best models.Tick
	found := false
	for key, tick := range b.quotes {
		if key.kind != kind || key.side != side {
			continue
		}

		if !found || better(tick.GetValue(), best.GetValue()) {
			best = tick
			found = true
		}
	}

	if !found {
		return models.Tick{}, fmt.Errorf("no %s %s quote for %s %.2f@%s: %w", kind, side, b.optionType, b.strike, b.maturity, models.MissingQuoteErr)
	}

	return best.WithSide(models.NoSide), nil
}

// BestBid returns the highest bid of the working value kind with its side cleared.
func (b *Book) BestBid() (models.Tick, error) {
	tick, err := b.best(models.Bid, func(candidate, current float64) bool { return candidate > current })
	if err != nil {
		return models.Tick{}, fmt.Errorf("Book.BestBid: %w", err)
	}

	return tick, nil
}

// BestAsk returns the lowest ask of the working value kind with its side cleared.
func (b *Book) BestAsk() (models.Tick, error) {
	tick, err := b.best(models.Ask, func(candidate, current float64) bool { return candidate < current })
	if err != nil {
		return models.Tick{}, fmt.Errorf("Book.BestAsk: %w", err)
	}

	return tick, nil
}

// unsided is the quote stored without a side, used when neither bid nor ask is present.
func (b *Book) unsided() (models.Tick, error) {
	tick, ok := b.quotes[bookKey{kind: b.workingKind(), side: models.NoSide}]
	if !ok {
		return models.Tick{}, fmt.Errorf("no bid or ask for %s %.2f@%s: %w", b.optionType, b.strike, b.maturity, models.MissingQuoteErr)
	}

	return tick, nil
}

// Mid averages the best bid and ask. It falls back to whichever side exists.
func (b *Book) Mid() (models.Tick, error) {
	bid, bidErr := b.BestBid()
	ask, askErr := b.BestAsk()

	switch {
	case bidErr == nil && askErr == nil:
		value, err := models.NewOptionValue(bid.Kind(), (bid.GetValue()+ask.GetValue())/2)
		if err != nil {
			return models.Tick{}, fmt.Errorf("Book.Mid: %w", err)
		}

		return bid.WithValue(value), nil
	case bidErr == nil:
		return bid, nil
	case askErr == nil:
		return ask, nil
	}

	tick, err := b.unsided()
	if err != nil {
		return models.Tick{}, fmt.Errorf("Book.Mid: %w", err)
	}

	return tick, nil
}

// MidWeighted averages the best bid and ask weighted by their volumes. It falls back to
// whichever side exists.
func (b *Book) MidWeighted() (models.Tick, error) {
	bid, bidErr := b.BestBid()
	ask, askErr := b.BestAsk()

	switch {
	case bidErr == nil && askErr == nil:
		bidVolume, ok := bid.Volume()
		if !ok {
			return models.Tick{}, fmt.Errorf("Book.MidWeighted: bid %s: %w", bid, models.MissingVolumeErr)
		}

		askVolume, ok := ask.Volume()
		if !ok {
			return models.Tick{}, fmt.Errorf("Book.MidWeighted: ask %s: %w", ask, models.MissingVolumeErr)
		}

		total := bidVolume + askVolume
		if total == 0 {
			return models.Tick{}, fmt.Errorf("Book.MidWeighted: bid and ask volumes sum to zero: %w", models.MissingVolumeErr)
		}

		value, err := models.NewOptionValue(bid.Kind(), (bid.GetValue()*bidVolume+ask.GetValue()*askVolume)/total)
		if err != nil {
			return models.Tick{}, fmt.Errorf("Book.MidWeighted: %w", err)
		}

		return bid.WithValue(value), nil
	case bidErr == nil:
		return bid, nil
	case askErr == nil:
		return ask, nil
	}

	tick, err := b.unsided()
	if err != nil {
		return models.Tick{}, fmt.Errorf("Book.MidWeighted: %w", err)
	}

	return tick, nil
}

// Quote is the book's representative quote, its mid.
func (b *Book) Quote() (models.Tick, error) {
	return b.Mid()
}

// Upsert stores tick under its (value kind, side) key. A value below Epsilon removes the
// key instead; removing a key that is not present is a no-op.
func (b *Book) Upsert(tick models.Tick) (*Book, error) {
	if !b.matches(tick) {
		return b, fmt.Errorf("Book.Upsert: %s does not belong to %s %.2f@%s: %w", tick, b.optionType, b.strike, b.maturity, models.KeyMismatchErr)
	}

	if tick.IsEmpty() {
		delete(b.quotes, keyOf(tick))
		return b, nil
	}

	if err := tick.Validate(); err != nil {
		return b, fmt.Errorf("Book.Upsert: %w", err)
	}

	b.quotes[keyOf(tick)] = tick
	return b, nil
}

// Delete removes the quote stored under the (value kind, side) key of tick. The returned
// flag reports whether the book is now empty.
func (b *Book) Delete(tick models.Tick) (*Book, bool, error) {
	if !b.matches(tick) {
		return b, false, fmt.Errorf("Book.Delete: %s does not belong to %s %.2f@%s: %w", tick, b.optionType, b.strike, b.maturity, models.KeyMismatchErr)
	}

	key := keyOf(tick)
	if _, ok := b.quotes[key]; !ok {
		return b, false, fmt.Errorf("Book.Delete: no %s %s quote: %w", key.kind, key.side, models.InvalidKeyErr)
	}

	delete(b.quotes, key)
	return b, len(b.quotes) == 0, nil
}
