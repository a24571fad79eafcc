package ansi

import (
	"bytes"
	_ "embed"
	"html/template"
)

// DocumentOptions controls the page produced by Document.
type DocumentOptions struct {
	Title string
	// BackgroundColor is a CSS color name or hex value; unsafe values are
	// replaced by the template engine.
	BackgroundColor   string
	NonBreakingSpaces bool
}

type documentParams struct {
	Title           string
	BackgroundColor string
	ForegroundColor string
	Content         template.HTML
}

var (
	documentTemplate = template.New("document")

	//go:embed templates/document.html
	documentTemplateRaw string
)

func init() {
	if _, err := documentTemplate.Parse(documentTemplateRaw); err != nil {
		panic(err)
	}
}

// Document renders terminal output as a standalone HTML page with a dark
// background.
func Document(output string, opts DocumentOptions) (string, error) {
	if opts.BackgroundColor == "" {
		opts.BackgroundColor = DefaultBackgroundColor
	}
	content := Converter{NonBreakingSpaces: opts.NonBreakingSpaces}.Convert(output)

	b := bytes.Buffer{}
	err := documentTemplate.Execute(&b, documentParams{
		Title:           opts.Title,
		BackgroundColor: opts.BackgroundColor,
		ForegroundColor: DefaultForegroundColor,
		Content:         template.HTML(content), //nolint:gosec // built from escaped text and generated styles only
	})
	return b.String(), err
}
