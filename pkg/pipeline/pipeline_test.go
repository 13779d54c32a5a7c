package pipeline_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bookmend/pkg/config"
	"github.com/walteh/bookmend/pkg/pipeline"
	"github.com/walteh/bookmend/pkg/stage"
	"github.com/walteh/bookmend/pkg/testutils"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t})
	return logger.WithContext(context.Background())
}

func TestRun_FullPipeline(t *testing.T) {
	cfg := &config.Config{
		Replacements:  []config.ReplacementRule{{Pattern: "teh", Replacement: "the"}},
		Abbreviations: []string{"Mr"},
		Choices:       []config.ChoiceRule{{Word: "gray", Options: []string{"gray", "grey"}}},
	}

	text := "teh gray cat of Mr Smith\n\n\n101\nChapter II\ncall 5551234 now\nHELLO said the cat"

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionApply, Text: "grey"}, // gray -> grey
		stage.Decision{Kind: stage.DecisionApply},               // HELLO -> hello
		stage.Decision{Kind: stage.DecisionSkip},                // leave the phone number line
	)

	res, err := pipeline.New(cfg, pres).Run(testContext(t), text, "book.txt")
	require.NoError(t, err)

	want := "the grey cat of Mr. Smith\n\nChapter 2\ncall 5551234 now\nhello said the cat"
	assert.Equal(t, want, res.Text)
	assert.False(t, res.Abandoned)
	assert.False(t, res.Dirty)
	assert.Equal(t, config.DefaultStageOrder, res.StagesRun)
	assert.NotEmpty(t, res.Summary)
}

func TestRun_NoPresenterSkipsInteractiveStages(t *testing.T) {
	cfg := &config.Config{
		Replacements: []config.ReplacementRule{{Pattern: "teh", Replacement: "the"}},
		Choices:      []config.ChoiceRule{{Word: "gray", Options: []string{"gray", "grey"}}},
	}

	res, err := pipeline.New(cfg, nil).Run(testContext(t), "teh gray HELLO", "book.txt")
	require.NoError(t, err)

	assert.Equal(t, "the gray HELLO", res.Text, "interactive stages never ran")
	assert.NotContains(t, res.StagesRun, stage.NameChoices)
	assert.NotContains(t, res.StagesRun, stage.NameAllCaps)
}

func TestRun_AbandonedBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	cfg := &config.Config{}
	res, err := pipeline.New(cfg, nil).Run(ctx, "some text", "book.txt")

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Abandoned)
	assert.Equal(t, "some text", res.Text, "partial text is returned for the caller to decide on")
	assert.Empty(t, res.StagesRun)
}

func TestRun_UnknownStageFails(t *testing.T) {
	cfg := &config.Config{Stages: []string{"not_a_stage"}}

	_, err := pipeline.New(cfg, nil).Run(testContext(t), "text", "book.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_a_stage")
}

func TestRun_PermanentDecisionMarksDirty(t *testing.T) {
	cfg := &config.Config{Stages: []string{stage.NameAllCaps}}

	pres := testutils.NewScriptedPresenter(
		stage.Decision{Kind: stage.DecisionIgnoreForever},
	)

	res, err := pipeline.New(cfg, pres).Run(testContext(t), "ACME anvils", "book.txt")
	require.NoError(t, err)

	assert.True(t, res.Dirty, "ignore-forever must trigger config persistence")
	assert.Contains(t, cfg.CapsIgnore, "ACME")
	assert.Equal(t, "ACME anvils", res.Text)
}

func TestRun_ConvertLowercaseOptInStage(t *testing.T) {
	cfg := &config.Config{
		Stages:            []string{stage.NameLowercase},
		LowercasePreserve: []string{"Watson"},
	}

	res, err := pipeline.New(cfg, nil).Run(testContext(t), "WATSON Came Home", "book.txt")
	require.NoError(t, err)
	assert.Equal(t, "Watson came home", res.Text)
}
