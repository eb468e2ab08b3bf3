package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_Length(t *testing.T) {
	for _, n := range []int{4, 6, 8} {
		c, err := Numeric(n)
		require.NoError(t, err)
		assert.Len(t, c, n)
		for _, r := range c {
			assert.True(t, r >= '0' && r <= '9', "non-digit %q in code %q", r, c)
		}
	}
}

func TestNumeric_RejectsNonPositiveLength(t *testing.T) {
	_, err := Numeric(0)
	assert.Error(t, err)
	_, err = Numeric(-3)
	assert.Error(t, err)
}

func TestNumeric_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		c, err := Numeric(6)
		require.NoError(t, err)
		seen[c] = true
	}
	// 20 identical 6-digit codes would mean a broken RNG.
	assert.Greater(t, len(seen), 1)
}
