package feed

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jiaming2012/option-analytics/src/models"
)

// CsvTick is one row of a quote file. Expiration is either an RFC3339 instant or a
// yyyy-mm-dd date; when it is empty, Years gives the maturity as a year fraction.
type CsvTick struct {
	Strike       float64 `csv:"strike"`
	Expiration   string  `csv:"expiration"`
	Years        string  `csv:"years"`
	Spot         float64 `csv:"spot"`
	Rate         string  `csv:"rate"`
	Dividend     string  `csv:"dividend"`
	Type         string  `csv:"type"`
	Kind         string  `csv:"kind"`
	Value        float64 `csv:"value"`
	Side         string  `csv:"side"`
	OpenInterest string  `csv:"open_interest"`
	Volume       string  `csv:"volume"`
}

func parseOptionalFloat(name, s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("error parsing %s %q: %w", name, s, err)
	}

	return v, true, nil
}

func (c *CsvTick) maturity() (models.Maturity, error) {
	expiration := strings.TrimSpace(c.Expiration)
	if expiration == "" {
		years, ok, err := parseOptionalFloat("years", c.Years)
		if err != nil {
			return models.Maturity{}, err
		}

		if !ok {
			return models.Maturity{}, fmt.Errorf("neither expiration nor years is set")
		}

		return models.ExpiresIn(years), nil
	}

	t, err := time.Parse(time.RFC3339, expiration)
	if err != nil {
		t, err = time.Parse("2006-01-02", expiration)
		if err != nil {
			return models.Maturity{}, fmt.Errorf("error parsing expiration %q: %w", expiration, err)
		}
	}

	return models.ExpiresAt(t), nil
}

// ToTick converts the row into a validated tick. Columns left empty fall back to defaults.
func (c *CsvTick) ToTick(defaults ...models.TickOption) (models.Tick, error) {
	maturity, err := c.maturity()
	if err != nil {
		return models.Tick{}, fmt.Errorf("CsvTick.ToTick: %w", err)
	}

	value, err := models.NewOptionValue(models.ValueKind(strings.ToLower(strings.TrimSpace(c.Kind))), c.Value)
	if err != nil {
		return models.Tick{}, fmt.Errorf("CsvTick.ToTick: %w", err)
	}

	opts := append([]models.TickOption{}, defaults...)
	opts = append(opts, models.WithSide(models.OptionSide(strings.ToLower(strings.TrimSpace(c.Side)))))

	optional := []struct {
		name  string
		field string
		opt   func(float64) models.TickOption
	}{
		{"rate", c.Rate, models.WithRiskFreeRate},
		{"dividend", c.Dividend, models.WithDividendYield},
		{"open interest", c.OpenInterest, models.WithOpenInterest},
		{"volume", c.Volume, models.WithVolume},
	}

	for _, o := range optional {
		v, ok, err := parseOptionalFloat(o.name, o.field)
		if err != nil {
			return models.Tick{}, fmt.Errorf("CsvTick.ToTick: %w", err)
		}

		if ok {
			opts = append(opts, o.opt(v))
		}
	}

	optionType := models.OptionType(strings.ToLower(strings.TrimSpace(c.Type)))
	tick := models.NewTick(c.Strike, maturity, c.Spot, optionType, value, opts...)
	if err := tick.Validate(); err != nil {
		return models.Tick{}, fmt.Errorf("CsvTick.ToTick: %w", err)
	}

	return tick, nil
}

// ReadTicks decodes every row of a quote file.
func ReadTicks(r io.Reader, defaults ...models.TickOption) ([]models.Tick, error) {
	var rows []*CsvTick
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("ReadTicks: error unmarshalling csv: %w", err)
	}

	ticks := make([]models.Tick, 0, len(rows))
	for i, row := range rows {
		tick, err := row.ToTick(defaults...)
		if err != nil {
			return nil, fmt.Errorf("ReadTicks: row %d: %w", i+1, err)
		}

		ticks = append(ticks, tick)
	}

	return ticks, nil
}
