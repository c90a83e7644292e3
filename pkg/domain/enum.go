package domain

import (
	"fmt"

	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

// EnumSet is the subset of an enumeration one operation accepts.
type EnumSet[T ~string] struct {
	members []T
}

// NewEnumSet keeps the members of all for which allow returns true. allow
// should switch over every member of the enumeration and panic on anything
// else, so that a new member forces a decision in every operation.
func NewEnumSet[T ~string](all []T, allow func(T) bool) EnumSet[T] {
	members := make([]T, 0, len(all))
	for _, m := range all {
		if allow(m) {
			members = append(members, m)
		}
	}
	return EnumSet[T]{members: members}
}

// FullEnumSet accepts every member.
func FullEnumSet[T ~string](all []T) EnumSet[T] {
	return EnumSet[T]{members: append([]T(nil), all...)}
}

func (s EnumSet[T]) Contains(v T) bool {
	for _, m := range s.members {
		if m == v {
			return true
		}
	}
	return false
}

// Values returns the wire values in declaration order.
func (s EnumSet[T]) Values() []string {
	out := make([]string, len(s.members))
	for i, m := range s.members {
		out[i] = string(m)
	}
	return out
}

// Parse accepts raw only when it is a member of the set. Anything else,
// including values valid for other operations, is an unknown value naming
// the allowed set.
func (s EnumSet[T]) Parse(attribute, raw string) result.Result[T, dErrors.Fail] {
	v := T(raw)
	if !s.Contains(v) {
		return result.Failure[T, dErrors.Fail](dErrors.UnknownValue(attribute, raw, s.Values()))
	}
	return result.Success[T, dErrors.Fail](v)
}

func unexpected[T ~string](v T) string {
	return fmt.Sprintf("domain: unexpected %T value %q", v, string(v))
}
