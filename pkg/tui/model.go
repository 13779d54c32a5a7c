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

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/walteh/bookmend/pkg/stage"
)

// decisionModel renders one Interaction and collects one Decision.
// Option prompts navigate with arrow keys; free-form prompts edit the
// matched line in a textinput.
type decisionModel struct {
	inter    stage.Interaction
	cursor   int
	input    textinput.Model
	decision stage.Decision
	done     bool
	aborted  bool
}

func newDecisionModel(inter stage.Interaction) decisionModel {
	m := decisionModel{inter: inter}
	if inter.FreeForm {
		m.input = textinput.New()
		m.input.SetValue(inter.Match.Text)
		m.input.CursorEnd()
		m.input.Focus()
	}
	return m
}

func (m decisionModel) Init() tea.Cmd {
	if m.inter.FreeForm {
		return textinput.Blink
	}
	return nil
}

func (m decisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	switch key.Type {
	case tea.KeyCtrlC:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEsc:
		// esc means "leave it alone", not abort
		m.decision = stage.Decision{Kind: stage.DecisionSkip}
		m.done = true
		return m, tea.Quit
	}

	if m.inter.FreeForm {
		if key.Type == tea.KeyEnter {
			m.decision = stage.Decision{Kind: stage.DecisionApply, Text: m.input.Value()}
			m.done = true
			return m, tea.Quit
		}
		return m.updateInput(msg)
	}

	switch key.Type {
	case tea.KeyLeft, tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyRight, tea.KeyDown, tea.KeyTab:
		if m.cursor < len(m.inter.Options)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		m.decision = m.decisionForOption(m.cursor)
		m.done = true
		return m, tea.Quit
	case tea.KeyRunes:
		if string(key.Runes) == "s" {
			m.decision = stage.Decision{Kind: stage.DecisionSkip}
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m decisionModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.inter.FreeForm {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// decisionForOption maps a selected option index to a Decision. The
// all-caps stage presents fixed semantic options; everything else
// applies the option text.
func (m decisionModel) decisionForOption(idx int) stage.Decision {
	if idx < 0 || idx >= len(m.inter.Options) {
		return stage.Decision{Kind: stage.DecisionSkip}
	}
	if m.inter.Stage == stage.NameAllCaps {
		switch idx {
		case 0:
			return stage.Decision{Kind: stage.DecisionApply}
		case 1:
			return stage.Decision{Kind: stage.DecisionSkip}
		case 2:
			return stage.Decision{Kind: stage.DecisionIgnoreForever}
		default:
			return stage.Decision{Kind: stage.DecisionAutoForever}
		}
	}
	return stage.Decision{Kind: stage.DecisionApply, Text: m.inter.Options[idx]}
}

func (m decisionModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(fmt.Sprintf("[%s] %s", m.inter.Stage, m.inter.Prompt)))
	b.WriteString("\n")
	b.WriteString(matchStyle.Render(m.inter.Match.Text))
	b.WriteString("\n\n")

	if m.inter.FreeForm {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render("enter to save, esc to skip"))
		return b.String()
	}

	for i, opt := range m.inter.Options {
		style := optionStyle
		if i == m.cursor {
			style = cursorStyle
		}
		b.WriteString(style.Render(opt))
	}
	b.WriteString("\n")
	b.WriteString(noticeStyle.Render("arrows to move, enter to choose, s or esc to skip"))
	return b.String()
}
