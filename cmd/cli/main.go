package main

import (
	"os"

	"github.com/limaJavier/coursegen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
