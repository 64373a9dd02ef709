package sequence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfsc/platform-governance/internal/core/domain/sequence"
)

func TestFormat_Code(t *testing.T) {
	f := sequence.DefaultFormat()
	assert.Equal(t, "SF-SC-2026-2002", f.Code("2026", 2002))
	assert.Equal(t, "SF-SC-2026-0007", f.Code("2026", 7))
	assert.Equal(t, "SF-SC-2026-12345", f.Code("2026", 12345))
}

func TestFormat_ParseRoundTrip(t *testing.T) {
	f := sequence.DefaultFormat()
	partition, seq, err := f.Parse("SF-SC-2027-2002")
	require.NoError(t, err)
	assert.Equal(t, "2027", partition)
	assert.Equal(t, int64(2002), seq)

	for _, bad := range []string{"", "SF-SC-2026", "XX-SC-2026-2002", "SF-SC-2026-12", "SF-SC-20 6-2002", "SF-SC-2026-abcd", "SF-SC-2026-2002-1"} {
		_, _, err := f.Parse(bad)
		assert.ErrorIs(t, err, sequence.ErrInvalidCode, bad)
	}
}

func TestValidatePartition(t *testing.T) {
	assert.NoError(t, sequence.ValidatePartition("2026"))
	assert.NoError(t, sequence.ValidatePartition("label_7"))
	for _, bad := range []string{"", "20-26", "2026 ", "ü", string(make([]byte, 65))} {
		assert.ErrorIs(t, sequence.ValidatePartition(bad), sequence.ErrInvalidPartition, "%q", bad)
	}
}

func TestYearPartition(t *testing.T) {
	assert.Equal(t, "2026", sequence.YearPartition(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.NoError(t, sequence.ValidateYear("2026"))
	assert.Error(t, sequence.ValidateYear("226"))
	assert.Error(t, sequence.ValidateYear("20x6"))
}
