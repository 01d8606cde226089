package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	var out bytes.Buffer

	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &out, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &out, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &out, true, ModeJSON).EffectiveMode())
	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &out, false, ModeText).EffectiveMode())
}

func TestNewRenderer_BufferIsNotATerminal(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Header(1, "Summary")
	r.Header(2, "Files")
	r.StatusLine("config/a.yml", "success", "backed up")
	r.Success("done")
	r.Muted("note")
	r.Error("boom")

	got := out.String()
	assert.Contains(t, got, "# Summary\n")
	assert.Contains(t, got, "## Files\n")
	assert.Contains(t, got, "- [success] config/a.yml (backed up)\n")
	assert.Contains(t, got, "**done**\n")
	assert.Contains(t, got, "_note_\n")
	assert.Equal(t, "**Error:** boom\n", errOut.String())
	assert.False(t, strings.Contains(got, "\x1b["))
}

func TestRenderer_TextWithoutTTYHasNoANSI(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeText)

	r.Header(1, "Summary")
	r.StatusLine("config/a.yml", "failed", "")
	r.Warning("careful")

	got := out.String()
	assert.Contains(t, got, "Summary")
	assert.Contains(t, got, "✗ config/a.yml")
	assert.Contains(t, got, "! careful")
	assert.NotContains(t, got, "\x1b[")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeJSON)

	err := r.JSON(map[string]int{"promoted": 2})
	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"promoted\": 2\n}\n", out.String())
}
