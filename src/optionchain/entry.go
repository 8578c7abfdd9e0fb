// Package optionchain aggregates option quotes into books, same-maturity chains and
// multi-maturity boards.
package optionchain

import (
	"fmt"

	"github.com/jiaming2012/option-analytics/src/models"
)

// Entry is a record a Chain can hold: anything with a contract key, a representative quote,
// and the ability to absorb or drop a single tick. Upsert and Delete return the updated entry;
// Delete also reports whether nothing is left.
type Entry[T any] interface {
	GetStrike() float64
	GetOptionType() models.OptionType
	GetMaturity() models.Maturity
	Quote() (models.Tick, error)
	Upsert(tick models.Tick) (T, error)
	Delete(tick models.Tick) (T, bool, error)
}

func newTickEntry(tick models.Tick) (models.Tick, error) {
	if err := tick.Validate(); err != nil {
		return models.Tick{}, fmt.Errorf("newTickEntry: %w", err)
	}

	return tick, nil
}

var (
	_ Entry[models.Tick] = models.Tick{}
	_ Entry[*Book]       = (*Book)(nil)
)
