package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned for annotation times that cannot be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

const maxFractionDigits = 9

// ParseElapsed parses an annotation time into an elapsed duration since the
// start of the recording. Accepted shapes:
//
//	"1.25"          raw seconds
//	"01:02.5"       MM:SS.fff
//	"00:01:02.5000" HH:MM:SS.ffff
//
// Each colon-separated field is a non-negative decimal integer; only the
// seconds field may carry a fraction (up to nanosecond precision). When a
// larger unit is present the smaller ones must be below 60.
func ParseElapsed(text string) (time.Duration, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q has too many fields", ErrInvalidTimestamp, text)
	}

	secs, err := parseSeconds(fields[len(fields)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, text, err)
	}
	if len(fields) > 1 && secs >= time.Minute {
		return 0, fmt.Errorf("%w: %q: seconds field must be below 60", ErrInvalidTimestamp, text)
	}

	var hours, minutes int64
	switch len(fields) {
	case 3:
		if hours, err = parseWhole(fields[0]); err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, text, err)
		}
		if minutes, err = parseWhole(fields[1]); err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, text, err)
		}
		if minutes >= 60 {
			return 0, fmt.Errorf("%w: %q: minutes field must be below 60", ErrInvalidTimestamp, text)
		}
	case 2:
		if minutes, err = parseWhole(fields[0]); err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, text, err)
		}
	}

	h, err := scale(hours, time.Hour)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, text, err)
	}
	m, err := scale(minutes, time.Minute)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, text, err)
	}
	total, err := add(h, m)
	if err == nil {
		total, err = add(total, secs)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, text, err)
	}
	return total, nil
}

// Seconds is a convenience wrapper returning ParseElapsed as float seconds.
func Seconds(text string) (float64, error) {
	d, err := ParseElapsed(text)
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}

func parseWhole(field string) (int64, error) {
	if field == "" || !allDigits(field) {
		return 0, fmt.Errorf("field %q is not a whole number", field)
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", field, err)
	}
	return n, nil
}

func parseSeconds(field string) (time.Duration, error) {
	whole, frac, hasFrac := strings.Cut(field, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("missing seconds")
	}
	if whole == "" {
		whole = "0"
	}
	n, err := parseWhole(whole)
	if err != nil {
		return 0, err
	}
	d, err := scale(n, time.Second)
	if err != nil {
		return 0, err
	}

	if hasFrac {
		if frac == "" || !allDigits(frac) {
			return 0, fmt.Errorf("fraction %q is not numeric", frac)
		}
		if len(frac) > maxFractionDigits {
			return 0, fmt.Errorf("fraction %q exceeds nanosecond precision", frac)
		}
		frac += strings.Repeat("0", maxFractionDigits-len(frac))
		ns, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("fraction %q: %w", frac, err)
		}
		if d, err = add(d, time.Duration(ns)); err != nil {
			return 0, err
		}
	}
	return d, nil
}

// scale returns n*unit for n >= 0, failing when the product overflows.
func scale(n int64, unit time.Duration) (time.Duration, error) {
	if n > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("%d x %v overflows a duration", n, unit)
	}
	return time.Duration(n) * unit, nil
}

// add sums two non-negative durations, failing on overflow.
func add(a, b time.Duration) (time.Duration, error) {
	if a > math.MaxInt64-b {
		return 0, fmt.Errorf("%v + %v overflows a duration", a, b)
	}
	return a + b, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
