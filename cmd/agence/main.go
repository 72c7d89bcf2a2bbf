package main

import (
	"os"

	"github.com/agence-immo/agence/cmd"
	"github.com/agence-immo/agence/internal/colors"
)

func main() {
	os.Exit(run(cmd.Execute))
}

func run(execute func() error) int {
	if err := execute(); err != nil {
		colors.Error(err.Error())
		return 1
	}
	return 0
}
