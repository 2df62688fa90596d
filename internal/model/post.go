// Package model defines the published post shared by the repository and the HTTP layer.
package model

import (
	"time"

	"github.com/debemdeboas/inkdraft/internal/util"
)

type PostID string

// ProfileID identifies the browser profile a session and its draft belong to.
type ProfileID string

type Post struct {
	ID PostID `json:"id"`

	Title string `json:"title"`

	// Hash of the compressed Markdown, used for cache busting of rendered HTML.
	MDContentHash string `json:"contentHash"`

	Markdown     []byte    `json:"-"`
	CreatedDate  time.Time `json:"createdAt"`
	ModifiedDate time.Time `json:"modifiedAt"`

	// Optional data from Mmark front matter.
	Info *util.ExtendedTitleData `json:"-"`

	Profile ProfileID `json:"profile,omitempty"`
}

func (p *Post) GetTitle() string {
	if p.Info != nil && p.Info.Title != "" {
		return p.Info.Title
	}
	return p.Title
}

// Category returns the category from the front matter, if any.
func (p *Post) Category() string {
	if p.Info == nil {
		return ""
	}
	return p.Info.Category
}
