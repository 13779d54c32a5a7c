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

// Package testutils provides test doubles for the interactive pipeline:
// a presenter that answers from a scripted decision list instead of a
// terminal.
package testutils

import (
	"context"
	"sync"

	"github.com/walteh/bookmend/pkg/stage"
	"gitlab.com/tozd/go/errors"
)

// 🎭 ScriptedPresenter returns pre-recorded decisions in order and
// remembers every interaction it was shown, so tests can assert both
// sides of the exchange.
type ScriptedPresenter struct {
	mu        sync.Mutex
	decisions []stage.Decision
	next      int

	// Seen holds every interaction presented, in order.
	Seen []stage.Interaction
	// Notices holds every Notify message as "stage: message".
	Notices []string
}

// 🏭 NewScriptedPresenter creates a presenter that will answer with the
// given decisions in order.
func NewScriptedPresenter(decisions ...stage.Decision) *ScriptedPresenter {
	return &ScriptedPresenter{decisions: decisions}
}

func (p *ScriptedPresenter) Present(ctx context.Context, inter stage.Interaction) (stage.Decision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Seen = append(p.Seen, inter)
	if p.next >= len(p.decisions) {
		return stage.Decision{}, errors.Errorf("presenter script exhausted after %d decisions", p.next)
	}
	d := p.decisions[p.next]
	p.next++
	return d, nil
}

func (p *ScriptedPresenter) Notify(ctx context.Context, stageName, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Notices = append(p.Notices, stageName+": "+message)
}

// Remaining reports how many scripted decisions were never consumed.
func (p *ScriptedPresenter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.decisions) - p.next
}
