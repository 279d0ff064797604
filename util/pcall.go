package util

import "github.com/pkg/errors"

// PCall runs f and converts a panic into a returned error.
func PCall(f func() error) (err error) {
	defer func() {
		rec := recover()
		if rec != nil {
			if recErr, ok := rec.(error); ok {
				err = errors.Wrap(recErr, "panic")
			} else if recStr, ok := rec.(string); ok {
				err = errors.New(recStr)
			} else {
				err = errors.Errorf("panic: unrecognized panic object type=[%T] val=[%#v]", rec, rec)
			}
		}
	}()
	return f()
}
