package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/option-analytics/src/blackscholes"
)

func TestParseGreekNames(t *testing.T) {
	t.Run("comma separated", func(t *testing.T) {
		greeks, err := ParseGreekNames("gamma, Delta,dual_gamma")
		require.NoError(t, err)
		assert.Equal(t, []blackscholes.GreekName{blackscholes.GammaGreek, blackscholes.DeltaGreek, blackscholes.DualGammaGreek}, greeks)
	})

	t.Run("empty", func(t *testing.T) {
		greeks, err := ParseGreekNames("  ")
		require.NoError(t, err)
		assert.Empty(t, greeks)
	})

	t.Run("unknown greek", func(t *testing.T) {
		_, err := ParseGreekNames("gamma,lambda")
		assert.ErrorContains(t, err, "lambda")
	})
}
