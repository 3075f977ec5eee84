package database

import (
	"fmt"
	"time"
)

// TimestampLayout is a fixed-width UTC layout, so stored strings sort in time order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// Timestamp formats t for storage.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Time scans a timestamp or date column. Postgres yields time.Time while SQLite
// yields the stored text.
type Time struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported time type %T", src)
	}
}

func (t *Time) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}

	return fmt.Errorf("parsing time %q", s)
}

// Ptr returns nil when the column was NULL.
func (t Time) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}

	v := t.Time

	return &v
}
