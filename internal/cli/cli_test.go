package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--help"}, &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "bbcli") {
		t.Errorf("expected usage text in stdout, got %q", stdout.String())
	}
}

func TestRun_ListSamples(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--list-samples"}, &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	for _, name := range []string{"cornell", "cornell_glass", "constant_fog", "image_infinite", "delta_behind_wall", "sphere_grid"} {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("expected %q in --list-samples output, got %q", name, stdout.String())
		}
	}
}

func TestRun_MissingScene(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit code 1 for missing scene argument, got %d", code)
	}
	if !strings.Contains(stderr.String(), "missing") {
		t.Errorf("expected a missing-scene message on stderr, got %q", stderr.String())
	}
}

func TestRun_UnknownScene(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"nonexistent_scene"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit code 1 for an unresolvable scene, got %d", code)
	}
	if !strings.Contains(stderr.String(), "nonexistent_scene") {
		t.Errorf("expected the scene name echoed in the error, got %q", stderr.String())
	}
}

func TestRun_InvalidFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"-not-a-real-flag"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit code 1 for an invalid flag, got %d", code)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantScene string
		wantSPP   int
		wantScale float64
	}{
		{"scene only", []string{"cornell"}, "cornell", 0, 1.0},
		{"with overrides", []string{"-s", "32", "-r", "0.5", "cornell"}, "cornell", 32, 0.5},
		{"no scene", []string{"-t", "4"}, "", 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, err := parseArgs(tt.args, &stderr)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			if opts.sceneArg != tt.wantScene {
				t.Errorf("sceneArg = %q, want %q", opts.sceneArg, tt.wantScene)
			}
			if opts.spp != tt.wantSPP {
				t.Errorf("spp = %d, want %d", opts.spp, tt.wantSPP)
			}
			if opts.scale != tt.wantScale {
				t.Errorf("scale = %v, want %v", opts.scale, tt.wantScale)
			}
		})
	}
}

func TestDisambiguate(t *testing.T) {
	// A path that doesn't exist on disk should be returned unchanged.
	path := disambiguate("/tmp/go-spectral-tracer-cli-test-does-not-exist.png")
	if path != "/tmp/go-spectral-tracer-cli-test-does-not-exist.png" {
		t.Errorf("expected unchanged path for a nonexistent file, got %q", path)
	}
}
