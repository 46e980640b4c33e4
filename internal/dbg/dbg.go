// Package dbg is the structured log channel spec.md §7 routes non-fatal
// bus anomalies through: internal/bus logs unmapped accesses here, while
// illegal-width writes (8-bit OAM, 8-bit VRAM past the BG boundary) are
// dropped without a log entry. It never aborts the caller; callers that
// need to halt do so themselves (see the panic in internal/openbus.Resolve
// for an unreachable PC region).
package dbg

// Logger is implemented by either build of this package, selected by the
// "debug" build tag. The no-debug build is a no-op so release builds don't
// pay for formatting every dropped write.
type Logger interface {
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

var log Logger

// Printf logs a formatted message through the active logger.
func Printf(format string, a ...interface{}) {
	log.Printf(format, a...)
}

// Println logs a message through the active logger.
func Println(a ...interface{}) {
	log.Println(a...)
}
