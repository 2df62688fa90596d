// Package util provides content hashing and mmark front matter helpers.
package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"
	"github.com/mmarkdown/mmark/v2/mast"

	"github.com/debemdeboas/inkdraft/internal/config"
)

type ExtendedTitleData struct {
	*mast.TitleData
	Consumed int

	Category      string `toml:"category"`
	FeaturedImage string `toml:"featured_image"`
}

// FrontMatter is the title block written in front of exported posts.
type FrontMatter struct {
	Title         string    `toml:"title"`
	Date          time.Time `toml:"date"`
	Keyword       []string  `toml:"keyword,omitempty"`
	Category      string    `toml:"category,omitempty"`
	FeaturedImage string    `toml:"featured_image,omitempty"`
}

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// EncodeFrontMatter renders fm as an mmark %%% block, newline terminated.
func EncodeFrontMatter(fm FrontMatter) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(config.FrontMatterDelimiter + "\n")
	if err := toml.NewEncoder(&buf).Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	buf.WriteString(config.FrontMatterDelimiter + "\n")
	return buf.Bytes(), nil
}

func GetFrontMatter(md []byte) (*ExtendedTitleData, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	delimiter := []byte(config.FrontMatterDelimiter)

	// Check if md is long enough to contain the delimiter
	if len(md) < 2*len(delimiter) {
		return nil, fmt.Errorf("invalid front matter format")
	}

	if !bytes.HasPrefix(md, delimiter) || md[len(delimiter)] != '\n' {
		return nil, fmt.Errorf("invalid front matter format")
	}

	second := bytes.Index(md[len(delimiter):], delimiter)
	if second == -1 {
		return nil, fmt.Errorf("invalid front matter format")
	}

	end := second + 2*len(delimiter)
	frontMatter := md[len(delimiter) : end-len(delimiter)]

	info := &ExtendedTitleData{
		TitleData: &mast.TitleData{},
	}

	if _, err := toml.Decode(string(frontMatter), info); err != nil {
		return nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	if info.Language == "" {
		info.Language = config.FallbackLanguage
	}

	// Skip the newline closing the block
	if end < len(md) && md[end] == '\n' {
		end++
	}
	info.Consumed = end

	return info, nil
}
