// Package exposure aggregates greek exposure across an option chain:
// the sum over strikes of spot * open interest * greek, with puts counted negatively.
package exposure

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
	"github.com/jiaming2012/option-analytics/src/models"
	"github.com/jiaming2012/option-analytics/src/optionchain"
)

type StrikeExposure struct {
	Strike     float64
	OptionType models.OptionType
	Exposure   float64
}

func exposureOf(quote models.Tick, greek blackscholes.GreekName, solver blackscholes.Solver) (float64, error) {
	openInterest, ok := quote.OpenInterest()
	if !ok {
		return 0, fmt.Errorf("open interest not set for %s: %w", quote, models.MissingQuoteErr)
	}

	solved, err := solver.SolveTick(quote)
	if err != nil {
		return 0, err
	}

	value, err := blackscholes.Greek(solved, greek)
	if err != nil {
		return 0, err
	}

	exposure := quote.AssetPrice * openInterest * value
	if quote.OptionType == models.Put {
		exposure = -exposure
	}

	return exposure, nil
}

// ByStrike returns the exposure of every entry in ascending strike order. Price quotes are
// solved with the chain's solver.
func ByStrike[T optionchain.Entry[T]](chain *optionchain.Chain[T], greek blackscholes.GreekName) ([]StrikeExposure, error) {
	if err := greek.Validate(); err != nil {
		return nil, fmt.Errorf("ByStrike: %w", err)
	}

	var out []StrikeExposure
	for _, entry := range chain.SortByStrike() {
		quote, err := entry.Quote()
		if err != nil {
			return nil, fmt.Errorf("ByStrike: %s %.2f: %w", entry.GetOptionType(), entry.GetStrike(), err)
		}

		exposure, err := exposureOf(quote, greek, chain.Solver())
		if err != nil {
			return nil, fmt.Errorf("ByStrike: %s exposure: %w", greek, err)
		}

		out = append(out, StrikeExposure{
			Strike:     entry.GetStrike(),
			OptionType: entry.GetOptionType(),
			Exposure:   exposure,
		})
	}

	return out, nil
}

// Exposure sums the exposure of a greek over the chain.
func Exposure[T optionchain.Entry[T]](chain *optionchain.Chain[T], greek blackscholes.GreekName) (float64, error) {
	if chain.Len() == 0 {
		return 0, fmt.Errorf("Exposure: %w", models.EmptyCollectionErr)
	}

	strikes, err := ByStrike(chain, greek)
	if err != nil {
		return 0, fmt.Errorf("Exposure: %w", err)
	}

	data := make(stats.Float64Data, 0, len(strikes))
	for _, s := range strikes {
		data = append(data, s.Exposure)
	}

	sum, err := stats.Sum(data)
	if err != nil {
		return 0, fmt.Errorf("Exposure: failed to calculate sum: %w", err)
	}

	return sum, nil
}

func DeltaExposure[T optionchain.Entry[T]](chain *optionchain.Chain[T]) (float64, error) {
	return Exposure(chain, blackscholes.DeltaGreek)
}

func GammaExposure[T optionchain.Entry[T]](chain *optionchain.Chain[T]) (float64, error) {
	return Exposure(chain, blackscholes.GammaGreek)
}

func VegaExposure[T optionchain.Entry[T]](chain *optionchain.Chain[T]) (float64, error) {
	return Exposure(chain, blackscholes.VegaGreek)
}

func VannaExposure[T optionchain.Entry[T]](chain *optionchain.Chain[T]) (float64, error) {
	return Exposure(chain, blackscholes.VannaGreek)
}

func CharmExposure[T optionchain.Entry[T]](chain *optionchain.Chain[T]) (float64, error) {
	return Exposure(chain, blackscholes.CharmGreek)
}
