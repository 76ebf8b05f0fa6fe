// Package cli implements bbcli's flag parsing, scene resolution, and
// render/encode pipeline. It is shared by cmd/bbcli/main.go and the module
// root's main.go so both entry points stay in lockstep with one
// implementation. Grounded on the teacher's root main.go (parseFlags/
// createScene/saveImageToFile shape), replacing its flag set and scene
// resolution with spec.md §6's CLI surface.
package cli

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-spectral-tracer/pkg/camera"
	"github.com/df07/go-spectral-tracer/pkg/renderer"
	"github.com/df07/go-spectral-tracer/pkg/sampler"
	"github.com/df07/go-spectral-tracer/pkg/scene"
)

type options struct {
	threads     int
	output      string
	spp         int
	maxBounces  int
	scale       float64
	listSamples bool
	help        bool
	integrator  string
	sceneArg    string
}

// Run executes bbcli's full command line: flag parsing, scene resolution,
// render, and image encode. It returns the process exit code (0 success,
// 1 invalid arguments or unreadable input) rather than calling os.Exit
// itself, so it can be called from any main package.
func Run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if opts.help {
		printUsage(stdout)
		return 0
	}
	if opts.listSamples {
		fmt.Fprint(stdout, scene.DescribeSamples())
		return 0
	}
	if opts.sceneArg == "" {
		fmt.Fprintln(stderr, "bbcli: missing <scene.xml | sample_name>")
		printUsage(stderr)
		return 1
	}

	if err := render(opts, stdout); err != nil {
		fmt.Fprintln(stderr, "bbcli:", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("bbcli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{scale: 1.0, integrator: "path"}
	fs.IntVar(&opts.threads, "t", runtime.NumCPU(), "number of worker threads")
	fs.StringVar(&opts.output, "o", "", "output file (overrides scene default)")
	fs.IntVar(&opts.spp, "s", 0, "samples per pixel (overrides scene default)")
	fs.IntVar(&opts.maxBounces, "b", 0, "max bounces (overrides scene default)")
	fs.Float64Var(&opts.scale, "r", 1.0, "resolution scale")
	fs.BoolVar(&opts.listSamples, "list-samples", false, "list built-in sample scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "show usage and exit")
	fs.StringVar(&opts.integrator, "integrator", "path", "integrator token")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		opts.sceneArg = fs.Arg(0)
	}
	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "bbcli [options] <scene.xml | sample_name> [<…>]")
	fmt.Fprintln(w, "  -t <num_threads>   (default: hardware concurrency)")
	fmt.Fprintln(w, "  -o <output_file>   (overrides scene filename)")
	fmt.Fprintln(w, "  -s <spp>           (overrides sampler spp)")
	fmt.Fprintln(w, "  -b <max_bounces>   (overrides integrator)")
	fmt.Fprintln(w, "  -r <scale>         (multiplies film resolution)")
	fmt.Fprintln(w, "  --list-samples")
	fmt.Fprintln(w, "  --help")
}

func render(opts options, stdout io.Writer) error {
	sample, ok := scene.Find(opts.sceneArg)
	if !ok {
		return fmt.Errorf("scene %q is not a built-in sample and XML/OBJ/glTF scene-file loading is out of scope for this build; pass a built-in name (see --list-samples)", opts.sceneArg)
	}

	sc := sample.Build()
	if opts.spp > 0 {
		sc.Sampling.SamplesPerPixel = opts.spp
	}
	if opts.maxBounces > 0 {
		sc.Sampling.MaxDepth = opts.maxBounces
	}

	width := int(float64(sample.Width) * opts.scale)
	height := int(float64(sample.Height) * opts.scale)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	cfg := renderer.Config{Token: opts.integrator, TileSize: 16, NumWorkers: opts.threads, Logger: renderer.NewDefaultLogger()}
	rendering := renderer.New(sc, width, height, cfg)

	spp := sc.Sampling.SamplesPerPixel
	prototype := sampler.NewHalton(spp, uint64(sc.Sampling.Seed))

	start := time.Now()
	rendering.Start(context.Background(), prototype, spp)
	if err := rendering.WaitAndLogProgress(context.Background()); err != nil {
		return errors.Wrapf(err, "rendering %q", sample.Name)
	}
	fmt.Fprintf(stdout, "render completed in %v\n", time.Since(start))

	out := opts.output
	if out == "" {
		out = outputPath(sample.Name)
	}
	return writePNG(rendering.GetFilm(), out, stdout)
}

func outputPath(sceneName string) string {
	return fmt.Sprintf("%s_%d.png", sceneName, time.Now().Unix())
}

func writePNG(film *camera.Film, path string, stdout io.Writer) error {
	path = disambiguate(path)
	pixels := film.GetRenderedImage()
	img := camera.ToRGBA(pixels, film.Width, film.Height)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return errors.Wrap(err, "encode png")
	}
	fmt.Fprintf(stdout, "render saved as %s\n", path)
	return nil
}

// disambiguate appends _N before the extension when path already exists,
// per spec.md §6's "when a file already exists, the writer appends _N".
func disambiguate(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
