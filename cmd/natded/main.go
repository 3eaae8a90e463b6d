// Command natded typechecks and proves constructive first-order logic
// proof terms, discharging sorry goals with the sequent prover where
// possible. See pkg/cli for subcommand implementations.
package main

import (
	"os"

	"github.com/natded/natded/pkg/cli"
)

func main() {
	os.Exit(cli.Run())
}
