package domain

import (
	"bytes"
	"fmt"
	"time"
)

// LocalTimeLayout is the zone-less timestamp format the backend uses for
// LocalDateTime fields
const LocalTimeLayout = "2006-01-02T15:04:05"

var localTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	LocalTimeLayout,
	"2006-01-02T15:04",
}

// LocalTime is a timestamp serialized without a zone offset. Parsed values
// are interpreted in time.Local.
type LocalTime struct {
	time.Time
}

func NewLocalTime(t time.Time) *LocalTime {
	return &LocalTime{Time: t}
}

// ParseLocalTime parses any of the accepted layouts, including the
// datetime-local form value ("2006-01-02T15:04")
func ParseLocalTime(s string) (LocalTime, error) {
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalTimeLayout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) || len(data) < 2 {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
