// Package rules holds the small collection checks every command reuses.
//
// A rule is a pure function from a collection to a Validation. Rules never
// look at absence: a nil slice or pointer means the attribute was not sent,
// which Required reports separately.
package rules

import (
	"fmt"

	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

type Validation = result.Validation[dErrors.Fail]

func valid() Validation { return result.Valid[dErrors.Fail]() }

func invalid(f dErrors.Fail) Validation { return result.Invalid[dErrors.Fail](f) }

// NotEmpty rejects a present but empty slice with an empty array error.
func NotEmpty[T any](attribute string, items []T) Validation {
	if items != nil && len(items) == 0 {
		return invalid(dErrors.EmptyArray(attribute))
	}
	return valid()
}

// NoDuplicates reports the first element whose key was already seen.
func NoDuplicates[T any, K comparable](attribute string, items []T, key func(T) K) Validation {
	seen := make(map[K]struct{}, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			return invalid(dErrors.UniquenessDataMismatch(attribute, fmt.Sprint(k)))
		}
		seen[k] = struct{}{}
	}
	return valid()
}

// NoDuplicatesOf is NoDuplicates keyed by the element itself.
func NoDuplicatesOf[T comparable](attribute string, items []T) Validation {
	return NoDuplicates(attribute, items, func(v T) T { return v })
}

// Required rejects a missing attribute.
func Required[T any](attribute string, value *T) Validation {
	if value == nil {
		return invalid(dErrors.MissingRequiredAttribute(attribute))
	}
	return valid()
}

// NotBlank rejects a present but empty string.
func NotBlank(attribute string, value *string) Validation {
	if value != nil && *value == "" {
		return invalid(dErrors.EmptyString(attribute))
	}
	return valid()
}

// Collection runs NotEmpty then NoDuplicates on one attribute.
func Collection[T any, K comparable](attribute string, items []T, key func(T) K) Validation {
	return result.Chain(
		func() Validation { return NotEmpty(attribute, items) },
		func() Validation { return NoDuplicates(attribute, items, key) },
	)
}
