//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseCpid checks that parsing never panics and that accepted ids
// render back to the exact input.
func FuzzParseCpid(f *testing.F) {
	f.Add(validCpid)
	f.Add(validOcid)
	f.Add("")
	f.Add("ocds-b3wdp1-MD-158045869089\x00")
	f.Add("'; DROP TABLE periods;--")

	f.Fuzz(func(t *testing.T, input string) {
		cpid, fail, ok := ParseCpid(input).Unwrap()
		if !ok {
			if fail == nil {
				t.Fatal("failure without a fail value")
			}
			return
		}
		if cpid.String() != input {
			t.Errorf("round-trip changed %q into %q", input, cpid.String())
		}
		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseOcid checks that every accepted ocid regenerates to itself.
func FuzzParseOcid(f *testing.F) {
	f.Add(validOcid)
	f.Add(validCpid)
	f.Add("ocds-b3wdp1-MD-1580458690892-EV-9999999999999")

	f.Fuzz(func(t *testing.T, input string) {
		ocid, _, ok := ParseOcid(input).Unwrap()
		if !ok {
			return
		}
		regenerated := GenerateOcid(ocid.Cpid(), ocid.Stage(), ocid.Timestamp())
		if regenerated.String() != input {
			t.Errorf("regenerated %q from %q", regenerated.String(), input)
		}
	})
}

// FuzzTrustedIDs ensures the context id parsers agree with each other.
func FuzzTrustedIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		owner := ParseOwner(input).IsSuccess()
		token := ParseToken(input).IsSuccess()
		submission := ParseSubmissionID(input).IsSuccess()
		if owner != token || token != submission {
			t.Error("inconsistent parsing across context ids")
		}
	})
}
