package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldmarkRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		contains []string
	}{
		{
			name:     "heading",
			source:   "# Dummy",
			contains: []string{"<h1>Dummy</h1>"},
		},
		{
			name:     "emphasis",
			source:   "some *emphasis* and **strong**",
			contains: []string{"<em>emphasis</em>", "<strong>strong</strong>"},
		},
		{
			name:     "gfm table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |\n",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "strikethrough",
			source:   "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "empty",
			source:   "",
			contains: []string{""},
		},
	}

	r := NewGoldmarkRenderer(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := r.Render([]byte(tt.source))
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(out), want)
			}
		})
	}
}

func TestGoldmarkRenderer_RawHTML(t *testing.T) {
	t.Parallel()

	source := []byte("<script>alert(1)</script>\n")

	safe, err := NewGoldmarkRenderer(Options{}).Render(source)
	require.NoError(t, err)
	assert.NotContains(t, string(safe), "<script>")

	unsafe, err := NewGoldmarkRenderer(Options{UnsafeHTML: true}).Render(source)
	require.NoError(t, err)
	assert.Contains(t, string(unsafe), "<script>")
}
