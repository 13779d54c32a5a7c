package caps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bookmend/pkg/caps"
)

func TestClassifier_FindRuns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single_word",
			text: "it was LOUD in there",
			want: []string{"LOUD"},
		},
		{
			name: "multi_word_run",
			text: "the sign read KEEP OUT in red",
			want: []string{"KEEP OUT"},
		},
		{
			name: "single_letters_skipped",
			text: "I went with J to the fair",
			want: nil,
		},
		{
			name: "two_separate_runs",
			text: "HELLO there GENERAL KENOBI",
			want: []string{"HELLO", "GENERAL KENOBI"},
		},
		{
			name: "internal_apostrophe",
			text: "the DON'T WALK sign flashed",
			want: []string{"DON'T WALK"},
		},
		{
			name: "embedded_caps_not_matched",
			text: "visiting McDonald today",
			want: nil,
		},
		{
			name: "newline_breaks_run",
			text: "FIRST\nSECOND",
			want: []string{"FIRST", "SECOND"},
		},
	}

	c := caps.NewClassifier(caps.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := c.FindRuns(tt.text)
			var got []string
			for _, r := range runs {
				got = append(got, r.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := caps.NewClassifier(caps.Options{
		IgnoreSet:    map[string]bool{"NASA": true},
		AutoLowerSet: map[string]bool{"CHAPTER": true},
	})

	assert.Equal(t, caps.Ignored, c.Classify(caps.Run{Text: "NASA"}))
	assert.Equal(t, caps.AutoLower, c.Classify(caps.Run{Text: "CHAPTER"}))
	assert.Equal(t, caps.Pending, c.Classify(caps.Run{Text: "LOUD"}))
}

func TestClassifier_Lowercase(t *testing.T) {
	plain := caps.NewClassifier(caps.Options{})
	assert.Equal(t, "keep out", plain.Lowercase("KEEP OUT"))

	preserving := caps.NewClassifier(caps.Options{PreserveInitial: true})
	assert.Equal(t, "Keep out", preserving.Lowercase("KEEP OUT"))
}

func TestClassifier_BulkLowercase(t *testing.T) {
	c := caps.NewClassifier(caps.Options{})

	text := "LOUD noises. More LOUD noises. LOUD again. LOUDER stays."
	got := c.BulkLowercase(text, "LOUD")

	assert.Equal(t, "loud noises. More loud noises. loud again. LOUDER stays.", got)
}

func TestClassifier_ApplyAutoResolve(t *testing.T) {
	c := caps.NewClassifier(caps.Options{
		AutoLowerSet: map[string]bool{"CHAPTER": true, "THE END": true},
	})

	text := "CHAPTER one. THE END came fast. CHAPTER two."
	got, records := c.ApplyAutoResolve(text)

	assert.Equal(t, "chapter one. the end came fast. chapter two.", got)
	require.Len(t, records, 2)
	// sorted application order
	assert.Equal(t, "CHAPTER", records[0].Original)
	assert.Equal(t, "THE END", records[1].Original)
}

func TestClassifier_ApplyAutoResolve_NoMatches(t *testing.T) {
	c := caps.NewClassifier(caps.Options{
		AutoLowerSet: map[string]bool{"MISSING": true},
	})

	text := "nothing uppercase here"
	got, records := c.ApplyAutoResolve(text)

	assert.Equal(t, text, got)
	assert.Empty(t, records)
}
