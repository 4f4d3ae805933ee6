package submissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFigmaURL(t *testing.T) {
	tests := []struct {
		name  string
		embed string
		want  string
	}{
		{
			name:  "plain iframe",
			embed: `<iframe src="https://www.figma.com/embed?embed_host=share&url=abc"></iframe>`,
			want:  "https://www.figma.com/embed?embed_host=share&url=abc",
		},
		{
			name:  "first of multiple iframes wins",
			embed: `<div><iframe src="https://www.figma.com/embed/one"></iframe><iframe src="https://www.figma.com/embed/two"></iframe></div>`,
			want:  "https://www.figma.com/embed/one",
		},
		{
			name:  "iframe nested in wrapper markup",
			embed: `<div style="position:relative"><p>preview</p><iframe width="800" src="https://www.figma.com/embed/nested" allowfullscreen></iframe></div>`,
			want:  "https://www.figma.com/embed/nested",
		},
		{
			name:  "no iframe",
			embed: `<div><a href="https://www.figma.com/file/abc">open in figma</a></div>`,
			want:  "",
		},
		{
			name:  "iframe without src",
			embed: `<iframe width="800" height="450"></iframe>`,
			want:  "",
		},
		{
			name:  "empty input",
			embed: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFigmaURL(tt.embed))
		})
	}
}
