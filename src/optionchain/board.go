package optionchain

import (
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
	"github.com/jiaming2012/option-analytics/src/models"
)

// Board holds one chain per maturity. Every chain shares the board's solver.
type Board[T Entry[T]] struct {
	chains   map[models.Maturity]*Chain[T]
	newChain func(models.Maturity) *Chain[T]
	solver   blackscholes.Solver
}

func NewBoard[T Entry[T]](newChain func(models.Maturity) *Chain[T]) *Board[T] {
	return &Board[T]{
		chains:   make(map[models.Maturity]*Chain[T]),
		newChain: newChain,
		solver:   blackscholes.DefaultSolver,
	}
}

// NewTickBoard creates a board of raw tick chains.
func NewTickBoard() *Board[models.Tick] {
	return NewBoard(NewTickChain)
}

// NewBookBoard creates a board of quote book chains.
func NewBookBoard() *Board[*Book] {
	return NewBoard(NewBookChain)
}

// WithSolver sets the solver of the board and of every chain it holds or creates later.
func (b *Board[T]) WithSolver(solver blackscholes.Solver) *Board[T] {
	b.solver = solver
	for _, chain := range b.chains {
		chain.WithSolver(solver)
	}

	return b
}

func (b *Board[T]) Len() int {
	return len(b.chains)
}

// Chain returns the chain for a maturity.
func (b *Board[T]) Chain(maturity models.Maturity) (*Chain[T], bool) {
	chain, ok := b.chains[maturity]
	return chain, ok
}

// SortByMaturity returns the chains from nearest to furthest maturity.
func (b *Board[T]) SortByMaturity() []*Chain[T] {
	chains := make([]*Chain[T], 0, len(b.chains))
	for _, chain := range b.chains {
		chains = append(chains, chain)
	}

	sort.Slice(chains, func(i, j int) bool {
		return chains[i].Maturity().Before(chains[j].Maturity())
	})

	return chains
}

// FrontMonth returns the chain with the nearest maturity.
func (b *Board[T]) FrontMonth() (*Chain[T], error) {
	var front *Chain[T]
	for _, chain := range b.chains {
		if front == nil || chain.Maturity().Before(front.Maturity()) {
			front = chain
		}
	}

	if front == nil {
		return nil, fmt.Errorf("Board.FrontMonth: %w", models.EmptyCollectionErr)
	}

	return front, nil
}

// Get returns the i-th chain in ascending maturity order.
func (b *Board[T]) Get(i int) (*Chain[T], error) {
	if i < 0 || i >= len(b.chains) {
		return nil, fmt.Errorf("Board.Get: index %d, board holds %d chains: %w", i, len(b.chains), models.IndexOutOfRangeErr)
	}

	return b.SortByMaturity()[i], nil
}

// Upsert routes tick to the chain of its maturity, creating the chain when absent. A value
// below Epsilon is routed to Delete, and is a no-op when nothing matches.
func (b *Board[T]) Upsert(tick models.Tick) error {
	if tick.IsEmpty() {
		if err := b.remove(tick); err != nil && !errors.Is(err, models.InvalidKeyErr) {
			return fmt.Errorf("Board.Upsert: %w", err)
		}

		return nil
	}

	chain, ok := b.chains[tick.Maturity]
	if ok {
		if err := chain.Upsert(tick); err != nil {
			return fmt.Errorf("Board.Upsert: %w", err)
		}

		return nil
	}

	chain = b.newChain(tick.Maturity).WithSolver(b.solver)
	if err := chain.Upsert(tick); err != nil {
		return fmt.Errorf("Board.Upsert: %w", err)
	}

	b.chains[tick.Maturity] = chain

	log.WithFields(log.Fields{
		"maturity": tick.Maturity,
		"chains":   len(b.chains),
	}).Debug("board: chain created")

	return nil
}

// Delete removes tick from the chain of its maturity. A chain left empty is removed from
// the board.
func (b *Board[T]) Delete(tick models.Tick) error {
	if err := b.remove(tick); err != nil {
		return fmt.Errorf("Board.Delete: %w", err)
	}

	return nil
}

func (b *Board[T]) remove(tick models.Tick) error {
	chain, ok := b.chains[tick.Maturity]
	if !ok {
		return fmt.Errorf("no chain for maturity %s: %w", tick.Maturity, models.InvalidKeyErr)
	}

	if err := chain.remove(tick); err != nil {
		return err
	}

	if chain.Len() == 0 {
		delete(b.chains, tick.Maturity)

		log.WithFields(log.Fields{
			"maturity": tick.Maturity,
			"chains":   len(b.chains),
		}).Debug("board: chain removed")
	}

	return nil
}
