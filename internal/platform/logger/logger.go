package logger

import (
	"log"
	"os"
)

// New returns a stdout logger prefixed with the component name; swap in
// structured logging when needed.
func New(component string) *log.Logger {
	prefix := ""
	if component != "" {
		prefix = component + " "
	}
	return log.New(os.Stdout, prefix, log.LstdFlags|log.LUTC)
}
