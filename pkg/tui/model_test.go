package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bookmend/pkg/stage"
)

func keyMsg(t tea.KeyType) tea.Msg {
	return tea.KeyMsg{Type: t}
}

func step(t *testing.T, m tea.Model, msg tea.Msg) decisionModel {
	t.Helper()
	next, _ := m.Update(msg)
	dm, ok := next.(decisionModel)
	require.True(t, ok)
	return dm
}

func TestDecisionModel_OptionSelection(t *testing.T) {
	inter := stage.Interaction{
		Stage:   stage.NameChoices,
		Match:   stage.Match{Text: "gray"},
		Options: []string{"gray", "grey"},
		Prompt:  `replace "gray" with`,
	}

	m := newDecisionModel(inter)
	m = step(t, m, keyMsg(tea.KeyRight))
	m = step(t, m, keyMsg(tea.KeyEnter))

	require.True(t, m.done)
	assert.Equal(t, stage.DecisionApply, m.decision.Kind)
	assert.Equal(t, "grey", m.decision.Text)
}

func TestDecisionModel_CursorStaysInBounds(t *testing.T) {
	inter := stage.Interaction{
		Stage:   stage.NameChoices,
		Options: []string{"a", "b"},
	}

	m := newDecisionModel(inter)
	m = step(t, m, keyMsg(tea.KeyLeft))
	assert.Equal(t, 0, m.cursor)

	m = step(t, m, keyMsg(tea.KeyRight))
	m = step(t, m, keyMsg(tea.KeyRight))
	m = step(t, m, keyMsg(tea.KeyRight))
	assert.Equal(t, 1, m.cursor)
}

func TestDecisionModel_SkipKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{name: "escape", msg: keyMsg(tea.KeyEsc)},
		{name: "s_key", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inter := stage.Interaction{
				Stage:   stage.NameChoices,
				Options: []string{"a", "b"},
			}
			m := step(t, newDecisionModel(inter), tt.msg)
			require.True(t, m.done)
			assert.Equal(t, stage.DecisionSkip, m.decision.Kind)
		})
	}
}

func TestDecisionModel_AllCapsOptionMapping(t *testing.T) {
	tests := []struct {
		name     string
		moves    int
		wantKind stage.DecisionKind
	}{
		{name: "lowercase", moves: 0, wantKind: stage.DecisionApply},
		{name: "keep", moves: 1, wantKind: stage.DecisionSkip},
		{name: "ignore_forever", moves: 2, wantKind: stage.DecisionIgnoreForever},
		{name: "always_lowercase", moves: 3, wantKind: stage.DecisionAutoForever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inter := stage.Interaction{
				Stage:   stage.NameAllCaps,
				Match:   stage.Match{Text: "ACME"},
				Options: []string{"Lowercase", "Keep uppercase", "Ignore permanently", "Always lowercase"},
			}

			m := newDecisionModel(inter)
			for i := 0; i < tt.moves; i++ {
				m = step(t, m, keyMsg(tea.KeyRight))
			}
			m = step(t, m, keyMsg(tea.KeyEnter))

			require.True(t, m.done)
			assert.Equal(t, tt.wantKind, m.decision.Kind)
		})
	}
}

func TestDecisionModel_FreeFormEdit(t *testing.T) {
	inter := stage.Interaction{
		Stage:    stage.NameNumbered,
		Match:    stage.Match{Text: "page 1234"},
		FreeForm: true,
	}

	m := newDecisionModel(inter)
	assert.Equal(t, "page 1234", m.input.Value(), "input starts with the matched line")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	m = step(t, m, keyMsg(tea.KeyEnter))

	require.True(t, m.done)
	assert.Equal(t, stage.DecisionApply, m.decision.Kind)
	assert.Equal(t, "page 1234!", m.decision.Text)
}

func TestDecisionModel_CtrlCAborts(t *testing.T) {
	inter := stage.Interaction{Stage: stage.NameChoices, Options: []string{"a"}}
	m := step(t, newDecisionModel(inter), keyMsg(tea.KeyCtrlC))
	assert.True(t, m.aborted)
}
