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

// Package buffer owns the single mutable text value that every pipeline
// stage operates on. Spans located against one revision of the text are
// never valid against a later one; callers re-scan after every mutation
// instead of adjusting offsets.
package buffer

import (
	"gitlab.com/tozd/go/errors"
)

// 🔢 Revision identifies one version of the buffer contents. It only
// ever increases.
type Revision uint64

// 📄 Buffer holds the current text and its revision counter. Mutation is
// single-threaded: exactly one stage holds replace rights at a time, so
// no internal locking is needed.
type Buffer struct {
	text string
	rev  Revision
}

// 🏭 New creates a buffer seeded with the initial text at revision 1.
func New(text string) *Buffer {
	return &Buffer{text: text, rev: 1}
}

// 📖 Read returns the current text.
func (b *Buffer) Read() string {
	return b.text
}

// 🔢 Revision returns the revision the current text belongs to.
func (b *Buffer) Revision() Revision {
	return b.rev
}

// Len returns the length of the current text in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// ✏️ Replace swaps [start, end) for newText and bumps the revision. Every
// span computed before the call is invalid afterwards. An out-of-range or
// inverted span is rejected without touching the text.
func (b *Buffer) Replace(start, end int, newText string) (Revision, error) {
	if start < 0 || end > len(b.text) || start > end {
		return b.rev, errors.Errorf("replacing span [%d,%d) in text of length %d: span out of range", start, end, len(b.text))
	}
	b.text = b.text[:start] + newText + b.text[end:]
	b.rev++
	return b.rev, nil
}

// 📝 SetText replaces the whole contents in one step. Used by stages that
// compute their result as a pure function of the previous text.
func (b *Buffer) SetText(text string) Revision {
	b.text = text
	b.rev++
	return b.rev
}

// 🔍 Slice returns the text within [start, end), or an error if the span
// does not fit the current text.
func (b *Buffer) Slice(start, end int) (string, error) {
	if start < 0 || end > len(b.text) || start > end {
		return "", errors.Errorf("slicing span [%d,%d) in text of length %d: span out of range", start, end, len(b.text))
	}
	return b.text[start:end], nil
}
