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

// Package tui implements the terminal Presenter: one small bubbletea
// program per pending decision. The pipeline suspends inside Present
// until the user picks an option or types a replacement.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/walteh/bookmend/pkg/stage"
	"gitlab.com/tozd/go/errors"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	matchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	optionStyle = lipgloss.NewStyle().Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Padding(0, 1).Reverse(true)
	noticeStyle = lipgloss.NewStyle().Faint(true)
)

// ErrAborted reports that the user quit the decision prompt.
var ErrAborted = errors.Base("interactive session aborted")

// 🎭 Presenter renders pending decisions in the terminal.
type Presenter struct {
	out io.Writer
}

// 🏭 NewPresenter creates a presenter writing to stdout.
func NewPresenter() *Presenter {
	return &Presenter{out: os.Stdout}
}

func (p *Presenter) Present(ctx context.Context, inter stage.Interaction) (stage.Decision, error) {
	model := newDecisionModel(inter)
	prog := tea.NewProgram(model, tea.WithOutput(p.out), tea.WithContext(ctx))

	final, err := prog.Run()
	if err != nil {
		return stage.Decision{}, errors.Errorf("running decision prompt: %w", err)
	}

	m, ok := final.(decisionModel)
	if !ok {
		return stage.Decision{}, errors.New("decision prompt returned unexpected model")
	}
	if m.aborted {
		return stage.Decision{}, errors.Errorf("presenting %s match: %w", inter.Stage, ErrAborted)
	}
	return m.decision, nil
}

func (p *Presenter) Notify(ctx context.Context, stageName, message string) {
	fmt.Fprintln(p.out, noticeStyle.Render(fmt.Sprintf("[%s] %s", stageName, message)))
}
