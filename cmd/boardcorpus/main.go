// Package main is the entry point for the boardcorpus CLI.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/tablewise/boardcorpus/internal/corpusd"
)

func main() {
	corpusd.NewApp().Run()
}
