// Command grove inspects component trees described in YAML scene files: it
// prints them, runs queries over them, and resolves dependencies the way a
// game would at runtime.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("grove failed")
		os.Exit(1)
	}
}
