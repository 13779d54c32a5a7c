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

// Package pipeline sequences the stages over one text buffer: every
// enabled automatic stage runs exactly once in the configured order,
// then each enabled interactive stage runs to exhaustion. A run can be
// abandoned between stages, never inside one.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/bookmend/pkg/audit"
	"github.com/walteh/bookmend/pkg/config"
	"github.com/walteh/bookmend/pkg/stage"
	"gitlab.com/tozd/go/errors"
)

// 📋 Result is the outcome of one pipeline run.
type Result struct {
	// Text is the final buffer contents.
	Text string

	// StagesRun lists the stages that completed, in order.
	StagesRun []string

	// Dirty reports that a permanent decision changed the rule sets and
	// the configuration should be persisted.
	Dirty bool

	// Abandoned reports that the run stopped between stages on context
	// cancellation. Text holds the partial result; the caller decides
	// whether to keep it.
	Abandoned bool

	// Summary is the ordered human-readable account of what happened.
	Summary string

	// Records is the full audit trail.
	Records []audit.Record
}

// 🎛️ Orchestrator owns stage ordering and the single processing context
// of a run.
type Orchestrator struct {
	cfg  *config.Config
	pres stage.Presenter
}

// 🏭 New creates an orchestrator. A nil presenter disables the
// interactive stages; automatic stages run either way.
func New(cfg *config.Config, pres stage.Presenter) *Orchestrator {
	return &Orchestrator{cfg: cfg, pres: pres}
}

// automaticFor maps a stage name to its implementation. Interactive
// stage names return nil here.
func automaticFor(name string) stage.Automatic {
	switch name {
	case stage.NameReplacements:
		return stage.Replacements{}
	case stage.NamePeriods:
		return stage.Periods{}
	case stage.NamePagination:
		return stage.Pagination{}
	case stage.NameRoman:
		return stage.RomanNumerals{}
	case stage.NameLowercase:
		return stage.Lowercase{}
	case stage.NameBlankLines:
		return stage.BlankLines{}
	default:
		return nil
	}
}

// sourceFor maps an interactive stage name to a fresh source.
func sourceFor(name string) stage.Source {
	switch name {
	case stage.NameChoices:
		return stage.NewWordChoices()
	case stage.NameAllCaps:
		return stage.NewAllCapsResolve()
	case stage.NameNumbered:
		return stage.NewNumberedLines()
	default:
		return nil
	}
}

// ▶️ Run executes the pipeline over text. Cancellation is honored only
// at stage boundaries: the result then carries the partial text with
// Abandoned set, and the error wraps the context error.
func (o *Orchestrator) Run(ctx context.Context, text, inputPath string, sinks ...audit.Sink) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	trail := audit.NewTrail(sinks...)
	pctx := stage.NewProcessingContext(o.cfg, text, inputPath, trail)

	stages := o.cfg.Stages
	if len(stages) == 0 {
		stages = config.DefaultStageOrder
	}

	res := &Result{}
	finish := func() *Result {
		res.Text = pctx.Buffer.Read()
		res.Dirty = pctx.Dirty
		res.Summary = trail.Summary()
		res.Records = trail.Records()
		return res
	}

	for _, name := range stages {
		if err := ctx.Err(); err != nil {
			res.Abandoned = true
			return finish(), errors.Errorf("run abandoned before %s: %w", name, err)
		}

		if auto := automaticFor(name); auto != nil {
			logger.Debug().Str("stage", name).Msg("running automatic stage")
			newText, records, err := auto.Apply(ctx, pctx.Buffer.Read(), pctx)
			if err != nil {
				return finish(), errors.Errorf("automatic stage %s: %w", name, err)
			}
			if newText != pctx.Buffer.Read() {
				pctx.Buffer.SetText(newText)
			}
			for _, rec := range records {
				trail.Add(rec)
			}
			res.StagesRun = append(res.StagesRun, name)
			continue
		}

		src := sourceFor(name)
		if src == nil {
			return finish(), errors.Errorf("unknown stage %q in configured order", name)
		}
		if o.pres == nil {
			logger.Debug().Str("stage", name).Msg("skipping interactive stage, no presenter")
			continue
		}

		logger.Debug().Str("stage", name).Msg("running interactive stage")
		if err := stage.NewDriver(src).Run(ctx, pctx, o.pres); err != nil {
			return finish(), errors.Errorf("interactive stage %s: %w", name, err)
		}
		res.StagesRun = append(res.StagesRun, name)
	}

	return finish(), nil
}
