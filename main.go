// Command go-spectral-tracer is the module root's entry point, kept
// alongside cmd/bbcli so `go run .`/`go build` at the repo root work the
// way the teacher's single root main.go did. See internal/cli for the
// actual flag/scene/render logic, shared with cmd/bbcli/main.go.
package main

import (
	"os"

	"github.com/df07/go-spectral-tracer/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
