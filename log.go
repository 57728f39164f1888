package lazycache

import (
	"github.com/btcsuite/btclog/v2"
	"github.com/davecgh/go-spew/spew"
)

// Subsystem defines the logging code for this package.
const Subsystem = "LZCH"

// log is a logger that is initialized with no output filters. This means
// the package will not perform any logging by default until the caller
// requests it.
var log btclog.Logger

// The default amount of logging is none.
func init() {
	DisableLog()
}

// DisableLog disables all library log output. Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	UseLogger(btclog.Disabled)
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// logClosure is used to provide a closure over expensive logging operations
// so they don't have to be performed when the logging level doesn't warrant
// it.
type logClosure func() string

// String invokes the underlying function and returns the result.
func (c logClosure) String() string {
	return c()
}

// spewClosure dumps v with spew only when the message is actually logged.
func spewClosure(v any) logClosure {
	return func() string {
		return spew.Sdump(v)
	}
}
