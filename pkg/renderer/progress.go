package renderer

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// SinglePhase tracks a render that completes in one sweep over the film's
// tiles: most tokens (Path, BDPT, the visualizers) render every pixel's
// full sample budget in a single pass, so progress is just "tiles done out
// of tiles total."
type SinglePhase struct {
	JobID      uuid.UUID
	TotalTiles int

	doneTiles atomic.Int64
	done      atomic.Bool
}

// NewSinglePhase creates a progress tracker for a totalTiles-tile render,
// stamped with a fresh job id.
func NewSinglePhase(totalTiles int) *SinglePhase {
	return &SinglePhase{JobID: uuid.New(), TotalTiles: totalTiles}
}

func (p *SinglePhase) tileDone() { p.doneTiles.Add(1) }

// DoneTiles returns how many tiles have completed so far.
func (p *SinglePhase) DoneTiles() int { return int(p.doneTiles.Load()) }

// Fraction returns completion in [0,1].
func (p *SinglePhase) Fraction() float64 {
	if p.TotalTiles == 0 {
		return 1
	}
	return float64(p.doneTiles.Load()) / float64(p.TotalTiles)
}

// IsDone reports whether every tile has completed.
func (p *SinglePhase) IsDone() bool { return p.done.Load() }

func (p *SinglePhase) markDone() { p.done.Store(true) }

// MultiPhase tracks a render that proceeds through a fixed sequence of
// named phases with independent work sizes — SPPM's per-iteration
// visible-point pass followed by its photon pass, or PhotonMapping's
// build-then-render split. Each phase has its own work size and completion
// counter, so progress reporting can say which phase is running and how
// far it has gotten, not just one overall fraction.
type MultiPhase struct {
	JobID  uuid.UUID
	Phases []string

	work  []int
	done  []atomic.Int64
	flags []atomic.Bool
}

// NewMultiPhase creates a progress tracker for the named phases, each with
// its own work-item count (e.g. tile count for a render phase, photon
// count for a photon pass).
func NewMultiPhase(phases []string, work []int) *MultiPhase {
	return &MultiPhase{
		JobID:  uuid.New(),
		Phases: phases,
		work:   work,
		done:   make([]atomic.Int64, len(phases)),
		flags:  make([]atomic.Bool, len(phases)),
	}
}

func (p *MultiPhase) advance(phase int, n int64) { p.done[phase].Add(n) }

func (p *MultiPhase) markPhaseDone(phase int) { p.flags[phase].Store(true) }

// Fraction returns phase i's completion in [0,1].
func (p *MultiPhase) Fraction(phase int) float64 {
	if p.work[phase] == 0 {
		return 1
	}
	return float64(p.done[phase].Load()) / float64(p.work[phase])
}

// IsDone reports whether every phase has completed.
func (p *MultiPhase) IsDone() bool {
	for i := range p.flags {
		if !p.flags[i].Load() {
			return false
		}
	}
	return true
}

// CurrentPhase returns the index of the first not-yet-complete phase, or
// len(Phases) if every phase is done.
func (p *MultiPhase) CurrentPhase() int {
	for i := range p.flags {
		if !p.flags[i].Load() {
			return i
		}
	}
	return len(p.Phases)
}
