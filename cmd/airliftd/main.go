package main

import (
	"github.com/skyquarter/airlift/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
