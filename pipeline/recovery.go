package pipeline

import (
	"fmt"
	"runtime/debug"
)

// runTrackedRecovered starts fn in a goroutine, closes the returned channel
// once fn returns or panics, and logs a panic instead of crashing the
// process. Used for every dedicated-thread stage goroutine (dispatch, both
// monitors, information, filter). The analyze pool does not use it, since
// analyzer failures are not caught by contract (see Analyzer); the publish
// task is not wrapped either.
func runTrackedRecovered(logger Logger, stage string, fn func()) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				if logger != nil {
					logger.Error("pipeline: stage panic recovered",
						"stage", stage,
						"panic", fmt.Sprint(r),
						"stack", string(debug.Stack()),
					)
				}
			}
		}()
		fn()
	}()
	return done
}
