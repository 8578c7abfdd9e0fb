package optionchain

import (
	"errors"
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
	"github.com/jiaming2012/option-analytics/src/models"
)

type chainKey struct {
	strike     float64
	optionType models.OptionType
}

func chainKeyOf(tick models.Tick) chainKey {
	return chainKey{strike: tick.Strike, optionType: tick.OptionType}
}

// Chain holds the entries of a single maturity, at most one per (strike, option type).
type Chain[T Entry[T]] struct {
	maturity   models.Maturity
	assetPrice float64
	entries    map[chainKey]T
	newEntry   func(models.Tick) (T, error)
	solver     blackscholes.Solver
}

func NewChain[T Entry[T]](maturity models.Maturity, newEntry func(models.Tick) (T, error)) *Chain[T] {
	return &Chain[T]{
		maturity: maturity,
		entries:  make(map[chainKey]T),
		newEntry: newEntry,
		solver:   blackscholes.DefaultSolver,
	}
}

// NewTickChain creates a chain holding one raw tick per contract.
func NewTickChain(maturity models.Maturity) *Chain[models.Tick] {
	return NewChain(maturity, newTickEntry)
}

// NewBookChain creates a chain holding one quote book per contract.
func NewBookChain(maturity models.Maturity) *Chain[*Book] {
	return NewChain(maturity, NewBook)
}

func (c *Chain[T]) Maturity() models.Maturity {
	return c.maturity
}

// AssetPrice is the spot carried by the most recently upserted tick.
func (c *Chain[T]) AssetPrice() float64 {
	return c.assetPrice
}

// Solver is used to turn price quotes into implied volatilities for the delta queries.
func (c *Chain[T]) Solver() blackscholes.Solver {
	return c.solver
}

// WithSolver replaces the chain's solver and returns the chain.
func (c *Chain[T]) WithSolver(solver blackscholes.Solver) *Chain[T] {
	c.solver = solver
	return c
}

func (c *Chain[T]) Len() int {
	return len(c.entries)
}

// Get returns the entry stored for a strike and option type.
func (c *Chain[T]) Get(strike float64, optionType models.OptionType) (T, bool) {
	entry, ok := c.entries[chainKey{strike: strike, optionType: optionType}]
	return entry, ok
}

func (c *Chain[T]) filter(keep func(T) bool) *Chain[T] {
	out := NewChain(c.maturity, c.newEntry)
	out.assetPrice = c.assetPrice
	out.solver = c.solver
	for key, entry := range c.entries {
		if keep(entry) {
			out.entries[key] = entry
		}
	}

	return out
}

// Calls returns a chain with only the call entries. Entries are shared, not copied.
func (c *Chain[T]) Calls() *Chain[T] {
	return c.filter(func(entry T) bool { return entry.GetOptionType() == models.Call })
}

// Puts returns a chain with only the put entries. Entries are shared, not copied.
func (c *Chain[T]) Puts() *Chain[T] {
	return c.filter(func(entry T) bool { return entry.GetOptionType() == models.Put })
}

// OTM keeps calls struck at or above spot and puts struck below spot.
func (c *Chain[T]) OTM() *Chain[T] {
	spot := c.assetPrice
	return c.filter(func(entry T) bool {
		if entry.GetOptionType() == models.Call {
			return entry.GetStrike() >= spot
		}

		return entry.GetStrike() < spot
	})
}

// SortByStrike returns the entries in ascending strike order, calls first on equal strikes.
func (c *Chain[T]) SortByStrike() []T {
	entries := make([]T, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].GetStrike() != entries[j].GetStrike() {
			return entries[i].GetStrike() < entries[j].GetStrike()
		}

		return entries[i].GetOptionType() == models.Call && entries[j].GetOptionType() == models.Put
	})

	return entries
}

// Map applies f to every entry in ascending strike order.
func Map[T Entry[T], U any](c *Chain[T], f func(T) U) []U {
	entries := c.SortByStrike()
	out := make([]U, 0, len(entries))
	for _, entry := range entries {
		out = append(out, f(entry))
	}

	return out
}

// Quotes converts a chain into a chain of its entries' representative quotes. Entries
// without a quote are skipped.
func Quotes[T Entry[T]](c *Chain[T]) *Chain[models.Tick] {
	out := NewTickChain(c.maturity)
	out.assetPrice = c.assetPrice
	out.solver = c.solver
	for key, entry := range c.entries {
		quote, err := entry.Quote()
		if err != nil {
			log.WithError(err).Debugf("Quotes: skipping %s %.2f", key.optionType, key.strike)
			continue
		}

		out.entries[key] = quote
	}

	return out
}

func nearestStrike[T Entry[T]](entries []T, spot float64) (T, bool) {
	var nearest T
	found := false
	for _, entry := range entries {
		if !found || math.Abs(entry.GetStrike()-spot) < math.Abs(nearest.GetStrike()-spot) {
			nearest = entry
			found = true
		}
	}

	return nearest, found
}

// ATM interpolates a quote struck at spot between the out-of-the-money put and call nearest
// to spot. When only one option type is present its nearest quote anchors both ends.
func (c *Chain[T]) ATM() (models.Tick, error) {
	spot := c.assetPrice
	otm := c.OTM()

	put, hasPut := nearestStrike(otm.Puts().SortByStrike(), spot)
	call, hasCall := nearestStrike(otm.Calls().SortByStrike(), spot)

	switch {
	case !hasPut && !hasCall:
		return models.Tick{}, fmt.Errorf("Chain.ATM: no out-of-the-money quotes at %s: %w", c.maturity, models.EmptyCollectionErr)
	case !hasPut:
		put = call
	case !hasCall:
		call = put
	}

	putQuote, err := put.Quote()
	if err != nil {
		return models.Tick{}, fmt.Errorf("Chain.ATM: put anchor: %w", err)
	}

	callQuote, err := call.Quote()
	if err != nil {
		return models.Tick{}, fmt.Errorf("Chain.ATM: call anchor: %w", err)
	}

	if putQuote.Kind() != callQuote.Kind() {
		return models.Tick{}, fmt.Errorf("Chain.ATM: put anchor holds %s, call anchor holds %s: %w", putQuote.Kind(), callQuote.Kind(), models.ValueKindMismatchErr)
	}

	amount := putQuote.GetValue()
	if callQuote.Strike != putQuote.Strike {
		amount += (callQuote.GetValue() - putQuote.GetValue()) * (spot - putQuote.Strike) / (callQuote.Strike - putQuote.Strike)
	}

	value, err := models.NewOptionValue(putQuote.Kind(), amount)
	if err != nil {
		return models.Tick{}, fmt.Errorf("Chain.ATM: %w", err)
	}

	atm := putQuote.WithStrike(spot).WithValue(value)
	atm.AssetPrice = spot

	return atm, nil
}

// ClosestDelta returns the quote of the given option type whose delta is nearest to target.
// Price quotes are solved for implied volatility first. Quotes whose delta cannot be computed
// are skipped. Ties go to the lower strike.
func (c *Chain[T]) ClosestDelta(optionType models.OptionType, target float64) (models.Tick, error) {
	if err := optionType.Validate(); err != nil {
		return models.Tick{}, fmt.Errorf("Chain.ClosestDelta: %w", err)
	}

	var best models.Tick
	bestDistance := math.Inf(1)
	found := false

	for _, entry := range c.SortByStrike() {
		if entry.GetOptionType() != optionType {
			continue
		}

		quote, err := entry.Quote()
		if err != nil {
			log.WithError(err).Debugf("Chain.ClosestDelta: skipping %s %.2f", optionType, entry.GetStrike())
			continue
		}

		delta, err := c.deltaOf(quote)
		if err != nil {
			log.WithError(err).Warnf("Chain.ClosestDelta: skipping %s", quote)
			continue
		}

		if distance := math.Abs(delta - target); distance < bestDistance {
			best = quote
			bestDistance = distance
			found = true
		}
	}

	if !found {
		return models.Tick{}, fmt.Errorf("Chain.ClosestDelta: no %s quote with a delta at %s: %w", optionType, c.maturity, models.EmptyCollectionErr)
	}

	return best, nil
}

func (c *Chain[T]) deltaOf(quote models.Tick) (float64, error) {
	solved, err := c.solver.SolveTick(quote)
	if err != nil {
		return 0, err
	}

	return blackscholes.Delta(solved)
}

func (c *Chain[T]) Call25Delta() (models.Tick, error) {
	return c.ClosestDelta(models.Call, 0.25)
}

func (c *Chain[T]) Call50Delta() (models.Tick, error) {
	return c.ClosestDelta(models.Call, 0.5)
}

func (c *Chain[T]) Put25Delta() (models.Tick, error) {
	return c.ClosestDelta(models.Put, -0.25)
}

func (c *Chain[T]) Put50Delta() (models.Tick, error) {
	return c.ClosestDelta(models.Put, -0.5)
}

// Upsert routes tick to the entry for its strike and option type, creating the entry when
// absent. A value below Epsilon is routed to Delete, and is a no-op when nothing matches.
func (c *Chain[T]) Upsert(tick models.Tick) error {
	if tick.Maturity != c.maturity {
		return fmt.Errorf("Chain.Upsert: %s does not belong to chain %s: %w", tick, c.maturity, models.KeyMismatchErr)
	}

	if tick.IsEmpty() {
		if err := c.remove(tick); err != nil && !errors.Is(err, models.InvalidKeyErr) {
			return fmt.Errorf("Chain.Upsert: %w", err)
		}

		return nil
	}

	if err := tick.Validate(); err != nil {
		return fmt.Errorf("Chain.Upsert: %w", err)
	}

	key := chainKeyOf(tick)
	entry, ok := c.entries[key]
	if !ok {
		created, err := c.newEntry(tick)
		if err != nil {
			return fmt.Errorf("Chain.Upsert: %w", err)
		}

		c.entries[key] = created
		c.assetPrice = tick.AssetPrice
		return nil
	}

	updated, err := entry.Upsert(tick)
	if err != nil {
		return fmt.Errorf("Chain.Upsert: %w", err)
	}

	c.entries[key] = updated
	c.assetPrice = tick.AssetPrice
	return nil
}

// Delete removes tick from its entry. An entry left empty is removed from the chain.
func (c *Chain[T]) Delete(tick models.Tick) error {
	if tick.Maturity != c.maturity {
		return fmt.Errorf("Chain.Delete: %s does not belong to chain %s: %w", tick, c.maturity, models.KeyMismatchErr)
	}

	if err := c.remove(tick); err != nil {
		return fmt.Errorf("Chain.Delete: %w", err)
	}

	return nil
}

func (c *Chain[T]) remove(tick models.Tick) error {
	key := chainKeyOf(tick)
	entry, ok := c.entries[key]
	if !ok {
		return fmt.Errorf("no entry for %s %.2f: %w", key.optionType, key.strike, models.InvalidKeyErr)
	}

	updated, empty, err := entry.Delete(tick)
	if err != nil {
		return err
	}

	if empty {
		delete(c.entries, key)
		return nil
	}

	c.entries[key] = updated
	return nil
}
