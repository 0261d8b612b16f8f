// shapegen enumerates class/interface hierarchies and classifies each one as
// legal or as an unresolvable default-method conflict.
package main

import (
	"os"

	"github.com/corey/shapegen/cmd/shapegen/cmd"
	"github.com/corey/shapegen/internal/logger"
)

func main() {
	err := cmd.Execute()
	logger.Cleanup()
	if err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
