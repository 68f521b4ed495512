// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"srdashboard/internal/shared/logger"
)

// SafeGo launches fn in a goroutine. A panic inside fn is logged with its
// stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Run(log, name, fn)
}

// Run calls fn on the current goroutine with the same panic recovery as SafeGo.
func Run(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
