package editor

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Stats struct {
	Words          int `json:"words"`
	Characters     int `json:"characters"`
	Images         int `json:"images"`
	ReadingMinutes int `json:"readingMinutes"`
}

// ComputeStats derives counts from rich-text markup. Text nodes are joined
// with spaces so adjacent blocks never merge into one word; &nbsp; counts as
// whitespace.
func ComputeStats(markup string, wordsPerMinute int) Stats {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	text, images := extractText(markup)
	words := len(strings.Fields(text))

	chars := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			chars++
		}
	}

	return Stats{
		Words:          words,
		Characters:     chars,
		Images:         images,
		ReadingMinutes: ReadingMinutes(words, wordsPerMinute),
	}
}

// ReadingMinutes is ceil(words / wpm) with a floor of one minute.
func ReadingMinutes(words, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return max(1, minutes)
}

func extractText(markup string) (string, int) {
	if strings.TrimSpace(markup) == "" {
		return "", 0
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", 0
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(parts, " "), doc.Find("img").Length()
}
