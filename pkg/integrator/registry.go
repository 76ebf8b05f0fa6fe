package integrator

import (
	"fmt"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Tokens lists every integrator selector spec.md §6 names, in the order
// --list-samples should print them.
var Tokens = []string{
	"path", "vol_path",
	"naive_path", "naive_vol_path",
	"light_path", "light_vol_path",
	"bdpt", "vol_bdpt",
	"random_walk", "ao", "albedo", "debug",
	"pm", "vol_pm",
	"sppm", "vol_sppm",
	"restir_di", "restir_pt",
}

// Build constructs the integrator named by token. path/vol_path,
// naive_path/naive_vol_path, light_path/light_vol_path, and bdpt/vol_bdpt
// resolve to the same underlying type under both of their tokens (see the
// package doc for why no separate volumetric implementation exists).
// Returns an error for any token not in Tokens.
func Build(token string, cfg core.SamplingConfig) (interface{}, error) {
	switch token {
	case "path", "vol_path":
		return NewPath(cfg), nil
	case "naive_path", "naive_vol_path":
		return NewNaivePath(cfg), nil
	case "light_path", "light_vol_path":
		return NewLightTracer(cfg), nil
	case "bdpt", "vol_bdpt":
		return NewBDPT(cfg), nil
	case "random_walk":
		return NewRandomWalk(cfg), nil
	case "ao":
		return NewAO(1.0), nil
	case "albedo":
		return NewAlbedo(), nil
	case "debug":
		return NewDebug(), nil
	case "pm", "vol_pm":
		return NewPhotonMapping(cfg, 0.05), nil
	case "sppm", "vol_sppm":
		return NewSPPM(cfg, 0.1, 0.7), nil
	case "restir_di":
		return NewReSTIRDI(8), nil
	case "restir_pt":
		return NewReSTIRPT(cfg, 8), nil
	default:
		return nil, fmt.Errorf("integrator: unknown token %q", token)
	}
}

// IsBidirectional reports whether token resolves to a BidirectionalIntegrator
// (driven by splatting rather than a single Li call per camera ray).
func IsBidirectional(token string) bool {
	switch token {
	case "light_path", "light_vol_path":
		return true
	default:
		return false
	}
}
