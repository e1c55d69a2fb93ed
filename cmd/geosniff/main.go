package main

import (
	"os"

	"github.com/spatialworks/geosniff/cmd/geosniff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
