package main

import (
	"os"

	"github.com/carlmjohnson/exitcode"
	"github.com/spotlightpa/sheets-to-locales/locales"
)

func main() {
	exitcode.Exit(locales.CLI(os.Args[1:]))
}
