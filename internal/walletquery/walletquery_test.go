package walletquery

import (
	"testing"
	"time"

	"github.com/gabapcia/blockscan/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("calendar date at midnight UTC", func(t *testing.T) {
		d, err := ParseDate("2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("surrounding spaces are ignored", func(t *testing.T) {
		d, err := ParseDate(" 2024-03-01 ")
		require.NoError(t, err)
		assert.Equal(t, 1, d.Day())
	})

	for _, input := range []string{"", "01/03/2024", "2024-13-01", "2024-02-30", "yesterday"} {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseDate(input)
			assert.ErrorIs(t, err, ledger.ErrInvalidInput)
		})
	}
}

func TestStartOfDay(t *testing.T) {
	sp := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{"already midnight", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"mid-day", time.Date(2024, 3, 1, 15, 4, 5, 6, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"other zone crossing midnight", time.Date(2024, 3, 1, 22, 0, 0, 0, sp), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, startOfDay(tt.input))
		})
	}
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, validateAddress("0x00000000000000000000000000000000000ca401"))
	assert.ErrorIs(t, validateAddress(""), ledger.ErrInvalidInput)
	assert.ErrorIs(t, validateAddress("0x12"), ledger.ErrInvalidInput)
}
