package stage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bookmend/pkg/audit"
	"github.com/walteh/bookmend/pkg/config"
	"github.com/walteh/bookmend/pkg/stage"
	"github.com/walteh/bookmend/pkg/testutils"
)

func TestWordChoices_ApplyAndSkip(t *testing.T) {
	cfg := &config.Config{Choices: []config.ChoiceRule{
		{Word: "gray", Options: []string{"gray", "grey"}},
	}}
	pctx := newPctx(cfg, "The gray cat saw a Gray dog.")

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionApply, Text: "grey"},
		stage.Decision{Kind: stage.DecisionApply, Text: "gray"},
	)

	driver := stage.NewDriver(stage.NewWordChoices())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "The grey cat saw a Gray dog.", pctx.Buffer.Read(),
		"choosing the text already in place leaves it alone")
	assert.Equal(t, stage.StateExhausted, driver.State())
	require.Len(t, pres.Seen, 2)
	assert.Equal(t, "gray", pres.Seen[0].Match.Text)
	assert.Equal(t, "Gray", pres.Seen[1].Match.Text, "matching is case-insensitive")
	assert.Equal(t, 0, pres.Remaining())
}

func TestWordChoices_ReplacementDoesNotRePrompt(t *testing.T) {
	cfg := &config.Config{Choices: []config.ChoiceRule{
		{Word: "cat", Options: []string{"cat", "cat burglar"}},
	}}
	pctx := newPctx(cfg, "a cat appeared")

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionApply, Text: "cat burglar"},
	)

	driver := stage.NewDriver(stage.NewWordChoices())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "a cat burglar appeared", pctx.Buffer.Read())
	assert.Len(t, pres.Seen, 1, "the inserted occurrence is behind the cursor")
}

func TestWordChoices_SkipAdvancesPastOccurrence(t *testing.T) {
	cfg := &config.Config{Choices: []config.ChoiceRule{
		{Word: "which", Options: []string{"which", "that"}},
	}}
	pctx := newPctx(cfg, "which way, and which door")

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionSkip},
		stage.Decision{Kind: stage.DecisionApply, Text: "that"},
	)

	driver := stage.NewDriver(stage.NewWordChoices())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "which way, and that door", pctx.Buffer.Read())
}

// mutatingPresenter rewrites the buffer before answering its first
// interaction, simulating a decision that arrives after the text moved.
type mutatingPresenter struct {
	inner   *testutils.ScriptedPresenter
	pctx    *stage.ProcessingContext
	mutated bool
}

func (p *mutatingPresenter) Present(ctx context.Context, inter stage.Interaction) (stage.Decision, error) {
	if !p.mutated {
		p.mutated = true
		p.pctx.Buffer.SetText("PREFIX " + p.pctx.Buffer.Read())
	}
	return p.inner.Present(ctx, inter)
}

func (p *mutatingPresenter) Notify(ctx context.Context, stageName, message string) {
	p.inner.Notify(ctx, stageName, message)
}

func TestDriver_StaleDecisionIsDiscarded(t *testing.T) {
	cfg := &config.Config{Choices: []config.ChoiceRule{
		{Word: "gray", Options: []string{"gray", "grey"}},
	}}
	pctx := newPctx(cfg, "the gray cat")

	inner := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionApply, Text: "grey"},
		stage.Decision{Kind: stage.DecisionApply, Text: "grey"},
	)
	pres := &mutatingPresenter{inner: inner, pctx: pctx}

	driver := stage.NewDriver(stage.NewWordChoices())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "PREFIX the grey cat", pctx.Buffer.Read(),
		"the stale span is never written through; the re-scan lands on the moved occurrence")
	assert.Len(t, inner.Seen, 2, "the match is re-presented after the discard")
}

func TestAllCapsResolve_BulkLowercase(t *testing.T) {
	cfg := &config.Config{CapsIgnore: []string{"NASA"}}
	pctx := newPctx(cfg, "HELLO there. NASA called. HELLO again, THE END.")

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionApply},
		stage.Decision{Kind: stage.DecisionApply},
	)

	driver := stage.NewDriver(stage.NewAllCapsResolve())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "hello there. NASA called. hello again, the end.", pctx.Buffer.Read())
	require.Len(t, pres.Seen, 2, "one prompt per distinct sequence, not per occurrence")
	assert.Equal(t, "HELLO", pres.Seen[0].Match.Text)
	assert.Equal(t, "THE END", pres.Seen[1].Match.Text, "consecutive caps words form one run")

	ignored := 0
	for _, rec := range pctx.Trail.ByStage(stage.NameAllCaps) {
		if rec.Action == audit.ActionIgnored {
			ignored++
		}
	}
	assert.Equal(t, 1, ignored, "the ignore set logs once per sequence")
}

func TestAllCapsResolve_KeepSuppressesForRun(t *testing.T) {
	pctx := newPctx(&config.Config{}, "WAIT here. WAIT there.")

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionSkip},
	)

	driver := stage.NewDriver(stage.NewAllCapsResolve())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "WAIT here. WAIT there.", pctx.Buffer.Read())
	assert.Len(t, pres.Seen, 1, "keep covers repeats for the rest of the run")
	assert.False(t, pctx.Dirty, "keep is not a permanent decision")
}

func TestAllCapsResolve_PermanentDecisions(t *testing.T) {
	tests := []struct {
		name      string
		decision  stage.Decision
		wantText  string
		wantSet   func(p *stage.ProcessingContext) bool
		wantInCfg func(cfg *config.Config) []string
	}{
		{
			name:     "ignore_forever",
			decision: stage.Decision{Kind: stage.DecisionIgnoreForever},
			wantText: "ACME makes anvils. ACME ships fast.",
			wantSet:  func(p *stage.ProcessingContext) bool { return p.CapsIgnore["ACME"] },
			wantInCfg: func(cfg *config.Config) []string {
				return cfg.CapsIgnore
			},
		},
		{
			name:     "always_lowercase",
			decision: stage.Decision{Kind: stage.DecisionAutoForever},
			wantText: "acme makes anvils. acme ships fast.",
			wantSet:  func(p *stage.ProcessingContext) bool { return p.CapsAutoLower["ACME"] },
			wantInCfg: func(cfg *config.Config) []string {
				return cfg.CapsAutoLower
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			pctx := newPctx(cfg, "ACME makes anvils. ACME ships fast.")

			pres := testutils.NewScriptedPresenter(tt.decision)
			driver := stage.NewDriver(stage.NewAllCapsResolve())
			require.NoError(t, driver.Run(testContext(t), pctx, pres))

			assert.Equal(t, tt.wantText, pctx.Buffer.Read())
			assert.True(t, tt.wantSet(pctx), "live set updated")
			assert.Contains(t, tt.wantInCfg(cfg), "ACME", "config updated for persistence")
			assert.True(t, pctx.Dirty, "permanent decisions mark the context dirty")
		})
	}
}

func TestAllCapsResolve_AutoLowerPrePass(t *testing.T) {
	cfg := &config.Config{CapsAutoLower: []string{"CHAPTER"}}
	pctx := newPctx(cfg, "CHAPTER ONE\nCHAPTER TWO")

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionSkip},
		stage.Decision{Kind: stage.DecisionSkip},
	)

	driver := stage.NewDriver(stage.NewAllCapsResolve())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "chapter ONE\nchapter TWO", pctx.Buffer.Read(),
		"standing decisions resolve before the first prompt")
	require.Len(t, pres.Seen, 2)
	assert.Equal(t, "ONE", pres.Seen[0].Match.Text)
	assert.Equal(t, "TWO", pres.Seen[1].Match.Text)
}

func TestNumberedLines_DeferredEdits(t *testing.T) {
	text := "Once upon a time\n1234\nthe end came on page 5678 suddenly\nshort line"
	pctx := newPctx(&config.Config{}, text)

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionApply, Text: "  "},
		stage.Decision{Kind: stage.DecisionApply, Text: "the end came suddenly"},
	)

	driver := stage.NewDriver(stage.NewNumberedLines())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "Once upon a time\n\nthe end came suddenly\nshort line", pctx.Buffer.Read())
	require.Len(t, pres.Seen, 2)
	assert.True(t, pres.Seen[0].FreeForm)
	assert.Equal(t, "1234", pres.Seen[0].Match.Text)
	assert.Equal(t, 1, pres.Seen[0].Match.Line)
	assert.Equal(t, "the end came on page 5678 suddenly", pres.Seen[1].Match.Text)

	applied := 0
	for _, rec := range pctx.Trail.ByStage(stage.NameNumbered) {
		if rec.Action == audit.ActionApplied {
			applied++
		}
	}
	assert.Equal(t, 2, applied)
}

func TestNumberedLines_UnchangedSubmissionIsSkip(t *testing.T) {
	pctx := newPctx(&config.Config{}, "line with 1234 inside")

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionApply, Text: " line with 1234 inside "},
	)

	driver := stage.NewDriver(stage.NewNumberedLines())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Equal(t, "line with 1234 inside", pctx.Buffer.Read())
	records := pctx.Trail.ByStage(stage.NameNumbered)
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionSkipped, records[0].Action)
}

func TestNumberedLines_ShortDigitRunsIgnored(t *testing.T) {
	pctx := newPctx(&config.Config{}, "page 12 of 99\nroom 42")

	pres := testutils.NewScriptedPresenter()
	driver := stage.NewDriver(stage.NewNumberedLines())
	require.NoError(t, driver.Run(testContext(t), pctx, pres))

	assert.Empty(t, pres.Seen, "two-digit runs are prose, not artifacts")
	assert.Equal(t, stage.StateExhausted, driver.State())
}
