// Command wiretrack records manufacturing module parameters with history
// and syncs them with a Google Sheets spreadsheet.
package main

import (
	"os"

	"github.com/roach88/wiretrack/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
