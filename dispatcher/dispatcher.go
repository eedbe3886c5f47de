// Package dispatcher implements the Multi-Mode Dispatcher: for
// one (origin, destination, time) request it runs an independent,
// mode-scoped connection-scan planner per configured mode and joins
// the results into a per-mode map. Planners run concurrently under an
// errgroup; each mode's state is request-local, so no locking is
// needed beyond the join.
package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/DevelopBG/PTV-Assistant-for-travel/calendarsvc"
	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/connection"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
	"github.com/DevelopBG/PTV-Assistant-for-travel/planner"
)

// DefaultRequestTimeout is the per-request wall-clock budget.
const DefaultRequestTimeout = 10 * time.Second

// Note classifies why a mode's slot holds no Journey.
type Note string

const (
	NoteNone             Note = ""
	NoteNoRoute          Note = "NoRoute"
	NoteNoServiceIn7Days Note = "NoServiceIn7Days"
	NoteCancelled        Note = "Cancelled"
	NoteTimeout          Note = "Timeout"
)

// ModeResult is one mode's slot in the dispatcher's answer.
type ModeResult struct {
	ModeTag string
	Journey *model.Journey
	Note    Note
}

// Result is the full dispatcher answer for one request.
type Result struct {
	RequestID string
	ByMode    map[string]*ModeResult
}

// Config carries the dispatcher's tunables.
type Config struct {
	RequestTimeout time.Duration
	Planner        planner.Config
}

// Dispatcher holds one pre-built, mode-scoped planner per mode tag.
// Built once over the read-only catalogue; safe for concurrent use.
type Dispatcher struct {
	cat      *catalogue.Catalogue
	planners map[string]*planner.Planner
	timeout  time.Duration
}

// New builds a Dispatcher with a scoped planner per catalogue mode.
func New(cat *catalogue.Catalogue, conns *connection.Set, cfg Config) *Dispatcher {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	oracle := calendarsvc.New(cat)
	planners := map[string]*planner.Planner{}
	for _, mode := range cat.Modes() {
		planners[mode] = planner.New(cat, oracle, conns.ForMode(mode), cfg.Planner)
	}

	return &Dispatcher{cat: cat, planners: planners, timeout: cfg.RequestTimeout}
}

// Modes returns the mode tags the dispatcher can plan for.
func (d *Dispatcher) Modes() []string {
	return d.cat.Modes()
}

// Plan runs every requested mode's planner concurrently and returns
// {mode -> Journey|nil}. origin/dest are maps from mode tag to
// that mode's resolved stop id; a mode absent from either map is
// skipped (the stop doesn't exist in that bundle). modes == nil means
// all configured modes.
func (d *Dispatcher) Plan(ctx context.Context, origin, dest map[string]string, departureSecs int, date string, modes []string) (*Result, error) {
	if modes == nil {
		modes = d.cat.Modes()
	}

	result := &Result{
		RequestID: uuid.NewString(),
		ByMode:    map[string]*ModeResult{},
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	slots := make([]*ModeResult, len(modes))

	for i, mode := range modes {
		mode := mode
		p, ok := d.planners[mode]
		if !ok {
			return nil, fmt.Errorf("unknown mode %q", mode)
		}

		slot := &ModeResult{ModeTag: mode}
		slots[i] = slot

		originID, haveOrigin := origin[mode]
		destID, haveDest := dest[mode]
		if !haveOrigin || !haveDest {
			slot.Note = NoteNoRoute
			continue
		}

		g.Go(func() error {
			out, err := p.Plan(ctx, originID, destID, departureSecs, date)
			if err != nil {
				return fmt.Errorf("planning mode %q: %w", mode, err)
			}

			switch out.Status {
			case planner.StatusFound:
				slot.Journey = out.Journey
			case planner.StatusNoRoute:
				slot.Note = NoteNoRoute
			case planner.StatusNoServiceWithinWindow:
				slot.Note = NoteNoServiceIn7Days
			case planner.StatusCancelled:
				slot.Note = NoteCancelled
				if ctx.Err() == context.DeadlineExceeded {
					slot.Note = NoteTimeout
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, slot := range slots {
		result.ByMode[slot.ModeTag] = slot
	}
	return result, nil
}
