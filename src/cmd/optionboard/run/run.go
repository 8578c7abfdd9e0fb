package run

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
	"github.com/jiaming2012/option-analytics/src/exposure"
	"github.com/jiaming2012/option-analytics/src/feed"
	"github.com/jiaming2012/option-analytics/src/optionchain"
	"github.com/jiaming2012/option-analytics/src/report"
	"github.com/jiaming2012/option-analytics/src/utils"
)

type RunArgs struct {
	CsvPath        string
	ConfigPath     string
	EnvDir         string
	GoEnv          string
	ExposureGreeks []blackscholes.GreekName
}

type RunResults struct {
	RunID    uuid.UUID
	Applied  int
	Dropped  int
	Chains   int
	Solver   blackscholes.Solver
	Exposure map[blackscholes.GreekName]float64
}

func loadConfig(args RunArgs) (utils.AnalyticsConfig, error) {
	if args.ConfigPath == "" {
		return utils.AnalyticsConfig{}, nil
	}

	return utils.LoadAnalyticsConfig(args.ConfigPath)
}

// Run loads the quotes of a csv file into a board of quote books and writes the board report to out.
func Run(args RunArgs, out io.Writer) (RunResults, error) {
	runID := uuid.New()
	logger := log.WithField("runID", runID.String())

	if args.EnvDir != "" {
		if err := utils.InitEnvironmentVariables(args.EnvDir, args.GoEnv); err != nil {
			return RunResults{}, fmt.Errorf("error initializing environment variables: %w", err)
		}
	}

	config, err := loadConfig(args)
	if err != nil {
		return RunResults{}, err
	}

	level, err := config.Level()
	if err != nil {
		return RunResults{}, err
	}

	log.SetLevel(level)

	solver := config.NewSolver()
	if err := solver.Validate(); err != nil {
		return RunResults{}, err
	}

	f, err := os.Open(args.CsvPath)
	if err != nil {
		return RunResults{}, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	ticks, err := feed.ReadTicks(f, config.TickDefaults()...)
	if err != nil {
		return RunResults{}, fmt.Errorf("error reading ticks from %s: %w", args.CsvPath, err)
	}

	logger.WithField("ticks", len(ticks)).Info("loaded ticks")

	dispatcher := feed.NewDispatcher()
	board := optionchain.NewBookBoard().WithSolver(solver)

	subscriber, err := feed.SubscribeBoard(dispatcher, board)
	if err != nil {
		return RunResults{}, err
	}

	dispatcher.PublishAll(ticks)

	logger.WithFields(log.Fields{
		"applied": subscriber.Applied,
		"dropped": subscriber.Dropped,
		"chains":  board.Len(),
	}).Info("board built")

	results := RunResults{
		RunID:   runID,
		Applied: subscriber.Applied,
		Dropped: subscriber.Dropped,
		Chains:  board.Len(),
		Solver:  solver,
	}

	if _, err := io.WriteString(out, report.BoardTable(board)); err != nil {
		return results, fmt.Errorf("error writing report: %w", err)
	}

	if len(args.ExposureGreeks) == 0 {
		return results, nil
	}

	front, err := board.FrontMonth()
	if err != nil {
		return results, fmt.Errorf("error computing exposure: %w", err)
	}

	quotes := optionchain.Quotes(front)
	results.Exposure = make(map[blackscholes.GreekName]float64)
	for _, greek := range args.ExposureGreeks {
		total, err := exposure.Exposure(quotes, greek)
		if err != nil {
			logger.WithError(err).Warnf("skipping %s exposure", greek)
			continue
		}

		results.Exposure[greek] = total
		if _, err := fmt.Fprintf(out, "Front month %s exposure: %.4f\n", greek, total); err != nil {
			return results, fmt.Errorf("error writing report: %w", err)
		}
	}

	return results, nil
}
