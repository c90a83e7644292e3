// Package result provides the success/failure containers the validation core
// threads through every parsing and business-rule step.
//
// Result carries a payload on success; Validation is the payload-free variant
// used by pass/fail checks. Both are immutable values. Accessors that assume a
// variant panic when called on the other one: that is a programmer error, not
// a runtime failure, so callers must check the discriminant first.
//
// Early return is spelled with Unwrap:
//
//	cpid, fail, ok := domain.ParseCpid(raw).Unwrap()
//	if !ok {
//		return result.Failure[Command](fail)
//	}
package result

// Result is either a success holding a T or a failure holding an E.
type Result[T any, E error] struct {
	value   T
	fail    E
	success bool
}

// Success wraps a value.
func Success[T any, E error](value T) Result[T, E] {
	return Result[T, E]{value: value, success: true}
}

// Failure wraps a failure.
func Failure[T any, E error](fail E) Result[T, E] {
	return Result[T, E]{fail: fail}
}

func (r Result[T, E]) IsSuccess() bool {
	return r.success
}

func (r Result[T, E]) IsFailure() bool {
	return !r.success
}

// Get returns the success value. Panics on a failure.
func (r Result[T, E]) Get() T {
	if !r.success {
		panic("result: Get called on failure: " + r.fail.Error())
	}
	return r.value
}

// Fail returns the failure. Panics on a success.
func (r Result[T, E]) Fail() E {
	if r.success {
		panic("result: Fail called on success")
	}
	return r.fail
}

// Unwrap returns the value, the failure and the discriminant. Exactly one of
// value and failure is meaningful; ok reports which.
func (r Result[T, E]) Unwrap() (value T, fail E, ok bool) {
	return r.value, r.fail, r.success
}

// Err returns the failure as a plain error, or nil on success. It bridges the
// core into code that speaks the standard (T, error) idiom.
func (r Result[T, E]) Err() error {
	if r.success {
		return nil
	}
	return r.fail
}

// OnFailure runs fn with the failure if there is one and returns r unchanged.
func (r Result[T, E]) OnFailure(fn func(E)) Result[T, E] {
	if !r.success {
		fn(r.fail)
	}
	return r
}

// OnSuccess runs fn with the value if there is one and returns r unchanged.
func (r Result[T, E]) OnSuccess(fn func(T)) Result[T, E] {
	if r.success {
		fn(r.value)
	}
	return r
}

// Map transforms the success value. Failures pass through untouched.
func Map[T, U any, E error](r Result[T, E], fn func(T) U) Result[U, E] {
	if !r.success {
		return Failure[U](r.fail)
	}
	return Success[U, E](fn(r.value))
}

// FlatMap chains a result-returning step. Failures short-circuit.
func FlatMap[T, U any, E error](r Result[T, E], fn func(T) Result[U, E]) Result[U, E] {
	if !r.success {
		return Failure[U](r.fail)
	}
	return fn(r.value)
}

// MapFailure translates the failure type while preserving a success payload.
func MapFailure[T any, E, F error](r Result[T, E], fn func(E) F) Result[T, F] {
	if !r.success {
		return Failure[T](fn(r.fail))
	}
	return Success[T, F](r.value)
}

// Match folds both variants into a single value.
func Match[T, U any, E error](r Result[T, E], onSuccess func(T) U, onFailure func(E) U) U {
	if r.success {
		return onSuccess(r.value)
	}
	return onFailure(r.fail)
}

// Traverse applies fn to every element in order and collects the values. It
// stops at the first failure.
func Traverse[T, U any, E error](items []T, fn func(T) Result[U, E]) Result[[]U, E] {
	if items == nil {
		return Success[[]U, E](nil)
	}
	out := make([]U, 0, len(items))
	for _, item := range items {
		value, fail, ok := fn(item).Unwrap()
		if !ok {
			return Failure[[]U](fail)
		}
		out = append(out, value)
	}
	return Success[[]U, E](out)
}

// Optional parses a value only when it is present. A nil input yields a
// successful nil output.
func Optional[T, U any, E error](value *T, fn func(T) Result[U, E]) Result[*U, E] {
	if value == nil {
		return Success[*U, E](nil)
	}
	parsed, fail, ok := fn(*value).Unwrap()
	if !ok {
		return Failure[*U](fail)
	}
	return Success[*U, E](&parsed)
}
