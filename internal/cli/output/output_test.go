package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{name: "auto on tty", mode: ModeAuto, isTTY: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, isTTY: false, want: ModeMarkdown},
		{name: "empty is auto", mode: "", isTTY: false, want: ModeMarkdown},
		{name: "explicit json", mode: ModeJSON, isTTY: true, want: ModeJSON},
		{name: "explicit text piped", mode: ModeText, isTTY: false, want: ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_NonTTYWritesNoEscapes(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeText)

	r.Header(1, "Bundle")
	r.Println(r.Styles().Success.Render("done"))

	assert.Equal(t, "Bundle\n\ndone\n", out.String())
	assert.False(t, strings.Contains(out.String(), "\x1b["))
}

func TestRenderer_Structured(t *testing.T) {
	v := BuildOutput{BuildID: "b1", Entry: "/p/entry.js", Modules: 3, Files: 3}

	var js bytes.Buffer
	ok, err := NewRendererWithTTY(&js, &bytes.Buffer{}, false, ModeJSON).Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, js.String(), `"build_id": "b1"`)
	assert.NotContains(t, js.String(), `"out"`)

	var ym bytes.Buffer
	ok, err = NewRendererWithTTY(&ym, &bytes.Buffer{}, false, ModeYAML).Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, ym.String(), "build_id: b1\n")
	assert.Contains(t, ym.String(), "modules: 3\n")

	ok, err = NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeText).Structured(v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "- **Modules:** 3", FormatKeyValue("Modules", "3"))
}
