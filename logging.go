package salestrack

import (
	"log"
	"os"
)

// InitLogging sends the standard logger to stdout with microsecond timestamps.
// Components tag their own lines, e.g. "[playback]".
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix("salestrack ")
}
