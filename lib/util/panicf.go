package util

import (
	"fmt"
)

// Panicf panics with a formatted string. It is reserved for wiring mistakes
// that must stop the process, such as installing signal listeners twice.
func Panicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
