/*
Package history owns the persisted record of past draws.

The record is read and written as one unit. On disk it is a single JSON
document:

	{
	  "draws":     [ {"time": "<ISO-8601>", "numbers": [1, 2, 3, 4, 5]}, ... ],
	  "last_draw": {"time": "<ISO-8601>", "numbers": [1, 2, 3, 4, 5]}
	}

A missing file is the same as an empty record, and an empty record is
written as {}.
*/
package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// MinNumber and MaxNumber bound every number a draw may hold.
const (
	MinNumber = 1
	MaxNumber = 60
)

// naiveLayout matches zone-less datetimes such as Python's isoformat()
// output. Fractional seconds are accepted after the seconds field.
const naiveLayout = "2006-01-02T15:04:05"

// Timestamp is a time.Time that serializes as a zone-less ISO-8601 string
// in local time, with microsecond precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, truncated to the microsecond the file format keeps.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Round(0).Truncate(time.Microsecond)}
}

// ParseTimestamp parses RFC 3339 or a zone-less ISO-8601 datetime.
// Zone-less values are read as local time.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t}, nil
	}
	t, err := time.ParseInLocation(naiveLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return Timestamp{Time: t}, nil
}

// MarshalJSON writes local time without a zone, the form Python's
// datetime.isoformat() produces: seconds, plus six fraction digits when
// the microseconds are not zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	local := t.Time.In(time.Local)
	layout := naiveLayout
	if local.Nanosecond() != 0 {
		layout += ".000000"
	}
	return json.Marshal(local.Format(layout))
}

// UnmarshalJSON accepts any format ParseTimestamp does.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Draw is one complete result set and the moment it was drawn.
type Draw struct {
	// Time is when the draw was made.
	Time Timestamp `json:"time"`

	// Numbers is the drawn set, sorted ascending.
	Numbers []int `json:"numbers"`
}

// History is the full persisted record.
type History struct {
	// Draws holds every past draw in chronological order.
	Draws []Draw `json:"draws,omitempty"`

	// LastDraw is the most recent draw, kept separately for fast lookup.
	LastDraw *Draw `json:"last_draw,omitempty"`
}

// Record appends d to Draws and makes it the last draw.
func (h *History) Record(d Draw) {
	h.Draws = append(h.Draws, d)
	last := Draw{Time: d.Time, Numbers: append([]int(nil), d.Numbers...)}
	h.LastDraw = &last
}

// IsEmpty reports whether nothing has been drawn yet.
func (h *History) IsEmpty() bool {
	return len(h.Draws) == 0 && h.LastDraw == nil
}

// Validate reports a draw without a time, without numbers, or holding a
// number outside [MinNumber, MaxNumber].
func (d Draw) Validate() error {
	if d.Time.IsZero() {
		return fmt.Errorf("missing time")
	}
	if len(d.Numbers) == 0 {
		return fmt.Errorf("missing numbers")
	}
	for _, n := range d.Numbers {
		if n < MinNumber || n > MaxNumber {
			return fmt.Errorf("number %d outside [%d, %d]", n, MinNumber, MaxNumber)
		}
	}
	return nil
}

// validate checks what the JSON decoder cannot: every draw, last_draw
// included, must be complete.
func (h *History) validate() error {
	if h.LastDraw != nil {
		if err := h.LastDraw.Validate(); err != nil {
			return fmt.Errorf("last_draw: %w", err)
		}
	}
	for i, d := range h.Draws {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("draws[%d]: %w", i, err)
		}
	}
	return nil
}
