package run

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
	"github.com/jiaming2012/option-analytics/src/models"
)

const boardCsv = `strike,years,spot,type,kind,value,side,open_interest
90,0.25,100,put,price,0.9,bid,500
90,0.25,100,put,price,1.1,ask,500
110,0.25,100,call,price,0.8,bid,700
110,0.25,100,call,price,1.0,ask,700
100,0.5,100,call,price,5.4,bid,
100,0.5,100,call,price,5.8,ask,
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "quotes.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(boardCsv), 0o644))

	t.Run("renders the board", func(t *testing.T) {
		out := &bytes.Buffer{}

		results, err := Run(RunArgs{CsvPath: csvPath, ExposureGreeks: []blackscholes.GreekName{blackscholes.GammaGreek, blackscholes.VegaGreek}}, out)
		require.NoError(t, err)

		assert.Equal(t, 6, results.Applied)
		assert.Equal(t, 0, results.Dropped)
		assert.Equal(t, 2, results.Chains)
		assert.Contains(t, results.Exposure, blackscholes.GammaGreek)
		assert.Contains(t, results.Exposure, blackscholes.VegaGreek)
		assert.Contains(t, out.String(), "Option Board:")
		assert.Contains(t, out.String(), "Front month gamma exposure")
	})

	t.Run("config overrides the solver", func(t *testing.T) {
		configPath := filepath.Join(dir, "analytics.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("logLevel: warn\nsolver:\n  maxIterations: 40\n"), 0o644))

		results, err := Run(RunArgs{CsvPath: csvPath, ConfigPath: configPath}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 40, results.Solver.MaxIterations)
		assert.Equal(t, 100, blackscholes.DefaultSolver.MaxIterations)
	})

	t.Run("config solver stays local to the run", func(t *testing.T) {
		configPath := filepath.Join(dir, "single-iteration.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("logLevel: warn\nsolver:\n  maxIterations: 1\n"), 0o644))

		_, err := Run(RunArgs{CsvPath: csvPath, ConfigPath: configPath, ExposureGreeks: []blackscholes.GreekName{blackscholes.GammaGreek}}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, blackscholes.DefaultSolver, blackscholes.Solver{Tolerance: 1e-8, MaxIterations: 100})

		put := models.NewTick(100, models.ExpiresIn(0.5), 100, models.Put, models.ImpliedVolatility(0.25))
		priced, err := blackscholes.TheoreticalPrice(put)
		require.NoError(t, err)

		sigma, err := blackscholes.ImpliedVolatility(priced)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, sigma, 1e-6)
	})

	t.Run("invalid row", func(t *testing.T) {
		badPath := filepath.Join(dir, "bad.csv")
		require.NoError(t, os.WriteFile(badPath, []byte(boardCsv+"100,0.5,100,call,price,5.6,last,\n"), 0o644))

		_, err := Run(RunArgs{CsvPath: badPath}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "row 7")
	})

	t.Run("missing csv", func(t *testing.T) {
		_, err := Run(RunArgs{CsvPath: filepath.Join(dir, "missing.csv")}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
