package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

const (
	CpidPattern = `^[a-z]{4}-[a-z0-9]{6}-[A-Z]{2}-[0-9]{13}$`
	OcidPattern = `^[a-z]{4}-[a-z0-9]{6}-[A-Z]{2}-[0-9]{13}-(AC|AP|EI|EV|FE|FS|NP|PC|PN|PQ|PS|RQ|TP)-[0-9]{13}$`
)

var (
	cpidRegexp = regexp.MustCompile(CpidPattern)
	ocidRegexp = regexp.MustCompile(OcidPattern)
)

// Cpid identifies a procurement procedure.
type Cpid struct {
	value string
}

// ParseCpid validates raw against CpidPattern.
func ParseCpid(raw string) result.Result[Cpid, dErrors.Fail] {
	return ParseCpidAttribute("cpid", raw)
}

// ParseCpidAttribute is ParseCpid reporting failures against attribute.
func ParseCpidAttribute(attribute, raw string) result.Result[Cpid, dErrors.Fail] {
	if !cpidRegexp.MatchString(raw) {
		return result.Failure[Cpid, dErrors.Fail](dErrors.DataMismatchToPattern(attribute, raw, CpidPattern))
	}
	return result.Success[Cpid, dErrors.Fail](Cpid{value: raw})
}

func (c Cpid) String() string { return c.value }
func (c Cpid) IsZero() bool   { return c.value == "" }

// Country is the two-letter country segment of the procurement id.
func (c Cpid) Country() string {
	parts := strings.Split(c.value, "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// Ocid identifies one stage of a procedure: cpid, stage token and the
// millisecond timestamp the stage was opened at.
type Ocid struct {
	value     string
	cpid      Cpid
	stage     Stage
	timestamp time.Time
}

func ParseOcid(raw string) result.Result[Ocid, dErrors.Fail] {
	return ParseOcidAttribute("ocid", raw)
}

func ParseOcidAttribute(attribute, raw string) result.Result[Ocid, dErrors.Fail] {
	mismatch := func() result.Result[Ocid, dErrors.Fail] {
		return result.Failure[Ocid, dErrors.Fail](dErrors.DataMismatchToPattern(attribute, raw, OcidPattern))
	}
	if !ocidRegexp.MatchString(raw) {
		return mismatch()
	}
	// cpid is the first four segments; stage and timestamp are the last two.
	parts := strings.Split(raw, "-")
	millis, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return mismatch()
	}
	return result.Success[Ocid, dErrors.Fail](Ocid{
		value:     raw,
		cpid:      Cpid{value: strings.Join(parts[:4], "-")},
		stage:     Stage(parts[4]),
		timestamp: time.UnixMilli(millis).UTC(),
	})
}

// ParseOcidOf parses raw as a release of cpid. A well-formed ocid of another
// procedure does not match the cpid prefix and fails with DR-5.
func ParseOcidOf(cpid Cpid) func(string) result.Result[Ocid, dErrors.Fail] {
	return func(raw string) result.Result[Ocid, dErrors.Fail] {
		return result.FlatMap(ParseOcid(raw), func(o Ocid) result.Result[Ocid, dErrors.Fail] {
			if o.cpid != cpid {
				return result.Failure[Ocid, dErrors.Fail](
					dErrors.DataMismatchToPattern("ocid", raw, cpid.value+"-<stage>-<timestamp>"))
			}
			return result.Success[Ocid, dErrors.Fail](o)
		})
	}
}

// GenerateOcid derives the release id of stage opened at timestamp.
func GenerateOcid(cpid Cpid, stage Stage, timestamp time.Time) Ocid {
	ts := timestamp.UTC().Truncate(time.Millisecond)
	return Ocid{
		value:     fmt.Sprintf("%s-%s-%013d", cpid.value, stage, ts.UnixMilli()),
		cpid:      cpid,
		stage:     stage,
		timestamp: ts,
	}
}

func (o Ocid) String() string       { return o.value }
func (o Ocid) IsZero() bool         { return o.value == "" }
func (o Ocid) Cpid() Cpid           { return o.cpid }
func (o Ocid) Stage() Stage         { return o.stage }
func (o Ocid) Timestamp() time.Time { return o.timestamp }
