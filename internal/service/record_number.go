package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Medical record numbers are day-scoped: YYYYMMDD-NNN, where NNN is a
// zero-padded counter starting at 001 for each calendar day. The number is
// assigned once at creation and never changes.
const (
	recordNumberDateLayout = "20060102"
	recordNumberSeparator  = "-"
	recordNumberSeqDigits  = 3
)

// RecordNumberPrefix returns the day prefix including the separator,
// e.g. "20250115-".
func RecordNumberPrefix(day time.Time) string {
	return day.Format(recordNumberDateLayout) + recordNumberSeparator
}

// FormatRecordNumber renders a record number for the given day and
// sequence value.
func FormatRecordNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%0*d", RecordNumberPrefix(day), recordNumberSeqDigits, seq)
}

// NextRecordNumber computes the successor of the latest record number
// issued for the day. latest may be "" when no patient has been created
// yet that day. The read-then-increment is not atomic; the store's unique
// index on the column is the backstop, and the caller retries on a
// uniqueness violation.
func NextRecordNumber(latest string, day time.Time) (string, error) {
	if latest == "" {
		return FormatRecordNumber(day, 1), nil
	}

	prefix := RecordNumberPrefix(day)
	suffix, ok := strings.CutPrefix(latest, prefix)
	if !ok {
		return "", fmt.Errorf("record number %q does not match day prefix %q", latest, prefix)
	}

	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("record number %q has a non-numeric suffix: %w", latest, err)
	}

	return FormatRecordNumber(day, seq+1), nil
}
