package command

import (
	"regexp"
	"strconv"
	"time"
)

// Duration is a parsed ban/mute duration: either permanent ('*') or a
// concrete time.Duration built from day/hour/minute/second components.
type Duration struct {
	Permanent bool
	Value     time.Duration
}

var durationTokenRe = regexp.MustCompile(`^(\d+)([dhms])`)

// ParseDuration implements spec.md §4.3's duration grammar:
// (<n>d)?(<n>h)?(<n>m)?(<n>s)? in any component order, or "*" for
// permanent. Components are summed regardless of the order they appear in,
// so "1h30m" and "30m1h" parse identically; an empty string, an unknown
// trailing fragment, or a zero total (other than "*") is rejected.
func ParseDuration(s string) (*Duration, error) {
	if s == "*" {
		return &Duration{Permanent: true}, nil
	}

	rest := s
	var days, hours, mins, secs int64
	for rest != "" {
		m := durationTokenRe.FindStringSubmatch(rest)
		if m == nil {
			return nil, parseErrorf("invalid duration %q: expected (<n>d)?(<n>h)?(<n>m)?(<n>s)? or '*'", s)
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n < 0 {
			return nil, parseErrorf("invalid duration %q: component out of range", s)
		}
		switch m[2] {
		case "d":
			days += n
		case "h":
			hours += n
		case "m":
			mins += n
		case "s":
			secs += n
		}
		rest = rest[len(m[0]):]
	}

	total := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(mins)*time.Minute +
		time.Duration(secs)*time.Second
	if total <= 0 {
		return nil, parseErrorf("invalid duration %q: must be positive or '*'", s)
	}
	return &Duration{Value: total}, nil
}

// Until resolves the duration against now; a permanent duration yields a
// nil time (spec.md §3: "None means permanent").
func (d *Duration) Until(now time.Time) *time.Time {
	if d == nil || d.Permanent {
		return nil
	}
	t := now.Add(d.Value)
	return &t
}
