package ansi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text is escaped", in: `a<b>&"c'`, want: "a&lt;b&gt;&amp;&#34;c&#39;"},
		{name: "basic color", in: "\x1b[31mred\x1b[0m plain", want: `<span style="color: #aa0000">red</span> plain`},
		{name: "bold and color", in: "\x1b[1;32mok\x1b[0m", want: `<span style="font-weight: bold; color: #00aa00">ok</span>`},
		{name: "bright colors", in: "\x1b[93;104mx", want: `<span style="color: #ffff55; background-color: #5555ff">x</span>`},
		{name: "style change reopens span", in: "\x1b[31ma\x1b[34mb", want: `<span style="color: #aa0000">a</span><span style="color: #0000aa">b</span>`},
		{name: "repeated style keeps span", in: "\x1b[31ma\x1b[31mb", want: `<span style="color: #aa0000">ab</span>`},
		{name: "empty params reset", in: "\x1b[31ma\x1b[mb", want: `<span style="color: #aa0000">a</span>b`},
		{name: "default foreground", in: "\x1b[1;31ma\x1b[39mb", want: `<span style="font-weight: bold; color: #aa0000">a</span><span style="font-weight: bold">b</span>`},
		{name: "attribute off codes", in: "\x1b[3;4;9ma\x1b[23;24;29mb", want: `<span style="font-style: italic; text-decoration: underline line-through">a</span>b`},
		{name: "256 color cube", in: "\x1b[38;5;196mx", want: `<span style="color: #ff0000">x</span>`},
		{name: "256 color grayscale", in: "\x1b[48;5;232mx", want: `<span style="background-color: #080808">x</span>`},
		{name: "256 color basic", in: "\x1b[38;5;2mx", want: `<span style="color: #00aa00">x</span>`},
		{name: "truecolor", in: "\x1b[48;2;1;2;3mx", want: `<span style="background-color: #010203">x</span>`},
		{name: "colon separated truecolor", in: "\x1b[38:2:255:128:0mx", want: `<span style="color: #ff8000">x</span>`},
		{name: "invalid extended color ignored", in: "\x1b[38;5;999mx", want: "x"},
		{name: "cursor movement stripped", in: "\x1b[2K\x1b[1Gdone", want: "done"},
		{name: "osc title stripped", in: "\x1b]0;title\x07text\x1b]2;other\x1b\\!", want: "text!"},
		{name: "charset selection stripped", in: "\x1b(Bok", want: "ok"},
		{name: "carriage returns dropped", in: "a\r\nb\rc", want: "a\nbc"},
		{name: "incomplete sequence at end", in: "abc\x1b[", want: "abc"},
		{name: "style without text emits nothing", in: "\x1b[31m\x1b[0m", want: ""},
		{name: "unicode passes through", in: "\x1b[32m✓\x1b[0m grün", want: `<span style="color: #00aa00">✓</span> grün`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTML(tt.in))
		})
	}
}

func TestConverterNonBreakingSpaces(t *testing.T) {
	c := Converter{NonBreakingSpaces: true}
	assert.Equal(t, "a&nbsp;&nbsp;b", c.Convert("a  b"))
	assert.Equal(t, `<span style="color: #aa0000">x&nbsp;y</span>`, c.Convert("\x1b[31mx y"))
}

func TestDocument(t *testing.T) {
	out, err := Document("\x1b[32mPASS\x1b[0m all <tests>\n", DocumentOptions{
		Title:             "build <42>",
		BackgroundColor:   "#1e1e1e",
		NonBreakingSpaces: true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>build &lt;42&gt;</title>")
	assert.Contains(t, out, `<div style="background-color: #1e1e1e; padding: 8px;">`)
	assert.Contains(t, out, `<span style="color: #00aa00">PASS</span>&nbsp;all&nbsp;&lt;tests&gt;`)
	assert.Contains(t, out, "color: "+DefaultForegroundColor)
}

func TestDocumentDefaults(t *testing.T) {
	out, err := Document("hello", DocumentOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "background-color: black")
	assert.Contains(t, out, "<title></title>")
	assert.Contains(t, out, "hello</div>")
}

func TestDocumentRejectsUnsafeColor(t *testing.T) {
	out, err := Document("x", DocumentOptions{BackgroundColor: "red;position:fixed"})
	require.NoError(t, err)
	assert.NotContains(t, out, "position:fixed")
	assert.Contains(t, out, "ZgotmplZ")
}

func TestColor256(t *testing.T) {
	assert.Equal(t, "#000000", color256(16))
	assert.Equal(t, "#ffffff", color256(231))
	assert.Equal(t, "#5f87af", color256(67))
	assert.Equal(t, "#eeeeee", color256(255))
}
