package main

import (
	"github.com/molehunt/molehunt/internal/cli"
)

func main() {
	cli.Execute()
}
