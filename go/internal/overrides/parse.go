package overrides

import (
	"fmt"
	"strings"
	"time"
)

// Override values are stored as the raw text an admin typed. Accepted shapes,
// tried in order: RFC 3339 with seconds, offset-bearing minute precision, and
// naive local timestamps which are interpreted in loc.
var layouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04-07:00", false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
}

// Parse converts a stored override string to a concrete time in loc. The raw
// value round-trips through storage untouched, so a value that fails to parse
// here failed the same way when it was written.
func Parse(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty override value")
	}

	for _, l := range layouts {
		var t time.Time
		var err error
		if l.naive {
			t, err = time.ParseInLocation(l.layout, s, loc)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable override value %q", raw)
}
