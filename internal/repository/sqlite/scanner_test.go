package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockScanner implements Scanner for testing
type MockScanner struct {
	values []interface{}
	err    error
}

func (ms *MockScanner) Scan(dest ...interface{}) error {
	if ms.err != nil {
		return ms.err
	}
	for i, d := range dest {
		*(d.(*string)) = ms.values[i].(string)
	}
	return nil
}

func TestScanSlot(t *testing.T) {
	scanner := &MockScanner{values: []interface{}{"tasks", "[]", "2024-01-15T10:30:00.5Z"}}

	slot, err := ScanSlot(scanner)

	require.NoError(t, err)
	assert.Equal(t, "tasks", slot.Key)
	assert.Equal(t, "[]", slot.Value)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 500000000, time.UTC), slot.UpdatedAt)
}

func TestScanSlot_BadTimestamp(t *testing.T) {
	scanner := &MockScanner{values: []interface{}{"tasks", "[]", "2024-01-15 10:30:00"}}

	_, err := ScanSlot(scanner)
	assert.Error(t, err)
}

func TestScanSlot_ScanError(t *testing.T) {
	scanner := &MockScanner{err: errors.New("scan failed")}

	_, err := ScanSlot(scanner)
	assert.EqualError(t, err, "scan failed")
}

func TestFormatTimeForDB(t *testing.T) {
	local := time.Date(2024, 1, 15, 12, 30, 0, 0, time.FixedZone("EET", 2*3600))
	assert.Equal(t, "2024-01-15T10:30:00Z", FormatTimeForDB(local))

	parsed, err := ParseTimeFromDB(FormatTimeForDB(local))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(local))
}
