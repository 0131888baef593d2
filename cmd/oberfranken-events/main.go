package main

import (
	"github.com/mbergner/oberfranken-events/internal/cli"
)

func main() {
	cli.Execute()
}
