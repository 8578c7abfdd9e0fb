package utils

import (
	"fmt"
	"strings"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
)

// ParseGreekNames converts a comma-separated string to a list of greeks. An empty string
// yields no greeks.
func ParseGreekNames(s string) ([]blackscholes.GreekName, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	strVals := strings.Split(s, ",")
	greeks := make([]blackscholes.GreekName, len(strVals))
	for i, strVal := range strVals {
		greek := blackscholes.GreekName(strings.ToLower(strings.TrimSpace(strVal)))
		if err := greek.Validate(); err != nil {
			return nil, fmt.Errorf("failed to convert '%s' to a greek: %w", strVal, err)
		}
		greeks[i] = greek
	}

	return greeks, nil
}
