// Command bbcli is the renderer's entry point: resolve a scene by built-in
// sample name (scene files are not loaded; any other argument is reported
// as an error), apply CLI overrides, render, and write the result image. See internal/cli for the actual flag/scene/render logic.
package main

import (
	"os"

	"github.com/df07/go-spectral-tracer/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
