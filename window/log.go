package window

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "vindu",
	Level:  log.WarnLevel,
})

// SetLogger replaces the package logger. The default writes warnings and
// errors to stderr; applications that want backend debug traces can install a
// logger at debug level.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}
