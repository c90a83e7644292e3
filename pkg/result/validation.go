package result

// Validation is a pass/fail outcome with no success payload.
type Validation[E error] struct {
	fail    E
	invalid bool
}

// Valid reports a passing check.
func Valid[E error]() Validation[E] {
	return Validation[E]{}
}

// Invalid reports a failing check.
func Invalid[E error](fail E) Validation[E] {
	return Validation[E]{fail: fail, invalid: true}
}

func (v Validation[E]) IsValid() bool {
	return !v.invalid
}

func (v Validation[E]) IsInvalid() bool {
	return v.invalid
}

// Fail returns the failure. Panics on a passing check.
func (v Validation[E]) Fail() E {
	if !v.invalid {
		panic("result: Fail called on valid validation")
	}
	return v.fail
}

// Unwrap returns the failure and whether the check passed.
func (v Validation[E]) Unwrap() (fail E, ok bool) {
	return v.fail, !v.invalid
}

// Err returns the failure as a plain error, or nil when valid.
func (v Validation[E]) Err() error {
	if !v.invalid {
		return nil
	}
	return v.fail
}

// OnInvalid runs fn with the failure if there is one and returns v unchanged.
func (v Validation[E]) OnInvalid(fn func(E)) Validation[E] {
	if v.invalid {
		fn(v.fail)
	}
	return v
}

// Then runs next only if v passed.
func (v Validation[E]) Then(next func() Validation[E]) Validation[E] {
	if v.invalid {
		return v
	}
	return next()
}

// Chain runs checks in order and stops at the first Invalid.
func Chain[E error](checks ...func() Validation[E]) Validation[E] {
	for _, check := range checks {
		if v := check(); v.invalid {
			return v
		}
	}
	return Valid[E]()
}

// MapInvalid translates the failure type.
func MapInvalid[E, F error](v Validation[E], fn func(E) F) Validation[F] {
	if v.invalid {
		return Invalid(fn(v.fail))
	}
	return Valid[F]()
}

// AsResult lifts a validation into a Result carrying value on success.
func AsResult[T any, E error](v Validation[E], value T) Result[T, E] {
	if v.invalid {
		return Failure[T](v.fail)
	}
	return Success[T, E](value)
}

// FromResult drops the success payload of r.
func FromResult[T any, E error](r Result[T, E]) Validation[E] {
	if !r.success {
		return Invalid(r.fail)
	}
	return Valid[E]()
}

// Every runs check for each item in order and stops at the first Invalid.
func Every[T any, E error](items []T, check func(T) Validation[E]) Validation[E] {
	for _, item := range items {
		if v := check(item); v.invalid {
			return v
		}
	}
	return Valid[E]()
}
