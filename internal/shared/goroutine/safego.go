// Package goroutine wraps fire-and-forget work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"inboxlift/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine and turns a panic into an error log
// instead of a process crash. Used for post-commit side effects like the
// bonus notification email, where the caller has already returned.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
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
	}()
}
