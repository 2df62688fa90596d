// Package repository stores published posts.
package repository

import (
	"errors"

	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/rs/zerolog"
)

var ErrPostNotFound = errors.New("post not found")

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

type PostRepository interface {
	NewPost(profile model.ProfileID) *model.Post
	// SavePost inserts post or replaces the stored copy with the same id.
	SavePost(post *model.Post) error
	ReadPost(id model.PostID) (*model.Post, error)
	// ListPosts returns the posts of profile, most recently modified first.
	// An empty profile lists every post.
	ListPosts(profile model.ProfileID) ([]model.Post, error)
}
