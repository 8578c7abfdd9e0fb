package utils

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
	"github.com/jiaming2012/option-analytics/src/models"
)

type SolverConfig struct {
	InitialGuess  float64 `yaml:"initialGuess"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"maxIterations"`
}

type DefaultsConfig struct {
	RiskFreeRate  *float64 `yaml:"riskFreeRate"`
	DividendYield *float64 `yaml:"dividendYield"`
}

type AnalyticsConfig struct {
	LogLevel string         `yaml:"logLevel"`
	Solver   SolverConfig   `yaml:"solver"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// NewSolver builds the implied-volatility solver, keeping the defaults for unset fields.
func (c AnalyticsConfig) NewSolver() blackscholes.Solver {
	solver := blackscholes.DefaultSolver
	if c.Solver.InitialGuess > 0 {
		solver.InitialGuess = c.Solver.InitialGuess
	}

	if c.Solver.Tolerance > 0 {
		solver.Tolerance = c.Solver.Tolerance
	}

	if c.Solver.MaxIterations > 0 {
		solver.MaxIterations = c.Solver.MaxIterations
	}

	return solver
}

// TickDefaults are the options applied to quotes that leave the rate or dividend unset.
func (c AnalyticsConfig) TickDefaults() []models.TickOption {
	var opts []models.TickOption
	if c.Defaults.RiskFreeRate != nil {
		opts = append(opts, models.WithRiskFreeRate(*c.Defaults.RiskFreeRate))
	}

	if c.Defaults.DividendYield != nil {
		opts = append(opts, models.WithDividendYield(*c.Defaults.DividendYield))
	}

	return opts
}

func (c AnalyticsConfig) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("AnalyticsConfig.Level: %w", err)
	}

	return level, nil
}

func (c AnalyticsConfig) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Solver.Tolerance < 0 {
		return fmt.Errorf("AnalyticsConfig.Validate: solver tolerance must not be negative, found %v", c.Solver.Tolerance)
	}

	if c.Solver.MaxIterations < 0 {
		return fmt.Errorf("AnalyticsConfig.Validate: solver max iterations must not be negative, found %v", c.Solver.MaxIterations)
	}

	return nil
}

func ParseAnalyticsConfig(data []byte) (AnalyticsConfig, error) {
	var config AnalyticsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return AnalyticsConfig{}, fmt.Errorf("failed to unmarshal analytics config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return AnalyticsConfig{}, err
	}

	return config, nil
}

func LoadAnalyticsConfig(path string) (AnalyticsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AnalyticsConfig{}, fmt.Errorf("failed to read analytics config: %w", err)
	}

	return ParseAnalyticsConfig(data)
}
