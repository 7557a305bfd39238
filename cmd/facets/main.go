// Package main is the entry point for the facets command line tool.
package main

import (
	"os"

	"github.com/asaidimu/go-facets/cmd/facets/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
