package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// TimeLayout is the text layout used for every timestamp column.
const TimeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// FormatTime renders t for storage. The zero time is stored as NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts the layouts SQLite and this package write.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// ParseNullTime returns the zero time for NULL or unparsable values.
func ParseNullTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, _ := ParseTime(ns.String)
	return t
}

// NullID maps a zero id to NULL.
func NullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
