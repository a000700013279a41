// Command localink synchronizes marketing site content translations: one
// subcommand per content type plus "all", each accepting --overwrite.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("sync failed")
		os.Exit(1)
	}
}
