package domain

import (
	"math"
	"strconv"
	"time"

	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

// DateFormat is the only accepted wire format for instants.
const DateFormat = "2006-01-02T15:04:05Z"

func ParseDate(attribute, raw string) result.Result[time.Time, dErrors.Fail] {
	if raw == "" {
		return result.Failure[time.Time, dErrors.Fail](dErrors.EmptyString(attribute))
	}
	t, err := time.Parse(DateFormat, raw)
	if err != nil {
		return result.Failure[time.Time, dErrors.Fail](dErrors.DataFormatMismatch(attribute, raw, DateFormat))
	}
	return result.Success[time.Time, dErrors.Fail](t.UTC())
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// MaxDurationSeconds is the largest whole-second count a time.Duration holds.
const MaxDurationSeconds = math.MaxInt64 / int64(time.Second)

// ParseDurationSeconds converts a count of seconds into a Duration, rejecting
// negative counts and counts that would overflow.
func ParseDurationSeconds(attribute string, seconds int64) result.Result[time.Duration, dErrors.Fail] {
	if seconds < 0 || seconds > MaxDurationSeconds {
		return result.Failure[time.Duration, dErrors.Fail](dErrors.DataFormatMismatch(attribute,
			strconv.FormatInt(seconds, 10), "seconds in 0.."+strconv.FormatInt(MaxDurationSeconds, 10)))
	}
	return result.Success[time.Duration, dErrors.Fail](time.Duration(seconds) * time.Second)
}
