// Package export turns editor state into a Markdown post with an mmark title block.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/debemdeboas/inkdraft/internal/editor"
	"github.com/debemdeboas/inkdraft/internal/util"
)

type Exporter struct {
	conv *converter.Converter
}

func New() *Exporter {
	return &Exporter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Body converts rich-text markup to Markdown.
func (e *Exporter) Body(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}
	md, err := e.conv.ConvertString(markup)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// Markdown renders snap as a post: front matter followed by the body.
func (e *Exporter) Markdown(snap editor.Snapshot, date time.Time) ([]byte, error) {
	body, err := e.Body(snap.Content)
	if err != nil {
		return nil, err
	}

	fm, err := util.EncodeFrontMatter(util.FrontMatter{
		Title:         strings.TrimSpace(snap.Title),
		Date:          date.UTC(),
		Keyword:       snap.Tags,
		Category:      snap.Category,
		FeaturedImage: snap.FeaturedImage,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(fm)
	buf.WriteString("\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// FileName is a download name derived from title.
func FileName(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "draft"
	}
	return name + ".md"
}
