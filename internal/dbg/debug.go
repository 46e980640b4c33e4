//go:build debug

package dbg

import (
	"fmt"
	stdlog "log"
	"os"
)

type debugLogger struct {
	l *stdlog.Logger
}

func init() {
	log = &debugLogger{l: stdlog.New(os.Stderr, "", stdlog.Lshortfile)}
}

func (d *debugLogger) Printf(format string, a ...interface{}) {
	d.l.Output(3, fmt.Sprintf(format, a...))
}

func (d *debugLogger) Println(a ...interface{}) {
	d.l.Output(3, fmt.Sprintln(a...))
}
