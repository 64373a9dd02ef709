package sequence

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPrefix    = "SF"
	DefaultSubPrefix = "SC"
	// DefaultFloor is the stored value of a fresh partition; the first code issued is DefaultFloor+1.
	DefaultFloor int64 = 2001
	DefaultWidth       = 4

	// MaxValue is the largest value a partition may be reset to; the counter must stay able to advance.
	MaxValue int64 = math.MaxInt64 - 1

	maxPartitionLen = 64
)

var (
	ErrInvalidPartition = errors.New("invalid partition key")
	ErrInvalidValue     = errors.New("invalid sequence value")
	ErrInvalidCode      = errors.New("invalid product code")
	ErrExhausted        = errors.New("sequence exhausted")
)

// ValidatePartition checks that key is usable as a counter partition and as a code segment.
func ValidatePartition(key string) error {
	if key == "" || len(key) > maxPartitionLen {
		return fmt.Errorf("%w: %q", ErrInvalidPartition, key)
	}
	for _, r := range key {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			return fmt.Errorf("%w: %q", ErrInvalidPartition, key)
		}
	}
	return nil
}

// YearPartition returns the partition key of the calendar year of t.
func YearPartition(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}

// ValidateYear checks that key is a four digit year.
func ValidateYear(key string) error {
	if len(key) != 4 || !isDigits(key) {
		return fmt.Errorf("%w: %q is not a 4-digit year", ErrInvalidPartition, key)
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Format renders product codes of the shape PREFIX-SUBPREFIX-{partition}-{sequence}.
type Format struct {
	Prefix    string
	SubPrefix string
	Width     int
}

// DefaultFormat produces codes like SF-SC-2026-2002.
func DefaultFormat() Format {
	return Format{Prefix: DefaultPrefix, SubPrefix: DefaultSubPrefix, Width: DefaultWidth}
}

// Code formats a sequence value, zero-padding it to the configured width.
func (f Format) Code(partition string, seq int64) string {
	return fmt.Sprintf("%s-%s-%s-%0*d", f.Prefix, f.SubPrefix, partition, f.Width, seq)
}

// Parse splits a code produced by Code back into its partition and sequence.
func (f Format) Parse(code string) (string, int64, error) {
	parts := strings.Split(code, "-")
	if len(parts) != 4 || parts[0] != f.Prefix || parts[1] != f.SubPrefix {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	if err := ValidatePartition(parts[2]); err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	if len(parts[3]) < f.Width || !isDigits(parts[3]) {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	seq, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return parts[2], seq, nil
}
