// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stage

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚦 State is the interactive driver's position in its lifecycle.
type State int

const (
	StateScanning State = iota
	StateAwaitingDecision
	StateApplying
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateAwaitingDecision:
		return "awaiting-decision"
	case StateApplying:
		return "applying"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// 🔌 Source feeds an interactive driver. Next re-derives the next
// unresolved interaction from the current buffer, never resuming from
// cached positions. Resolve applies exactly one decision.
type Source interface {
	Name() string
	Next(ctx context.Context, pctx *ProcessingContext) (*Interaction, bool, error)
	Resolve(ctx context.Context, pctx *ProcessingContext, m Match, d Decision) error
	// Finish runs once after the source is exhausted, for sources that
	// defer their buffer mutations to the end of the pass.
	Finish(ctx context.Context, pctx *ProcessingContext) error
}

// 🎮 Driver runs one interactive stage: scan, suspend on the presenter,
// apply, repeat until the source is exhausted. Suspension on Present is
// the only point where control leaves the pipeline.
type Driver struct {
	src   Source
	state State
}

// 🏭 NewDriver wraps a source in a fresh driver.
func NewDriver(src Source) *Driver {
	return &Driver{src: src, state: StateScanning}
}

// State reports the driver's current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// ▶️ Run drives the source to exhaustion. A decision that arrives for a
// match the buffer no longer contains (the revision moved underneath
// it) is discarded and the source re-scans; stale spans are never
// applied.
func (d *Driver) Run(ctx context.Context, pctx *ProcessingContext, pres Presenter) error {
	logger := zerolog.Ctx(ctx)

	for {
		d.state = StateScanning
		inter, ok, err := d.src.Next(ctx, pctx)
		if err != nil {
			return errors.Errorf("scanning %s: %w", d.src.Name(), err)
		}
		if !ok {
			if err := d.src.Finish(ctx, pctx); err != nil {
				return errors.Errorf("finishing %s: %w", d.src.Name(), err)
			}
			d.state = StateExhausted
			pres.Notify(ctx, d.src.Name(), "stage complete")
			return nil
		}

		d.state = StateAwaitingDecision
		dec, err := pres.Present(ctx, *inter)
		if err != nil {
			return errors.Errorf("awaiting decision for %s: %w", d.src.Name(), err)
		}

		d.state = StateApplying
		if inter.Match.Rev != pctx.Buffer.Revision() {
			// the buffer changed underneath the decision; discard it
			// and re-derive rather than writing through a stale span
			logger.Debug().
				Str("stage", d.src.Name()).
				Uint64("match_rev", uint64(inter.Match.Rev)).
				Uint64("buffer_rev", uint64(pctx.Buffer.Revision())).
				Msg("discarding stale decision")
			continue
		}

		if err := d.src.Resolve(ctx, pctx, inter.Match, dec); err != nil {
			return errors.Errorf("applying decision for %s: %w", d.src.Name(), err)
		}
	}
}
