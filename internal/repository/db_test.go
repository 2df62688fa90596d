package repository

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/debemdeboas/inkdraft/internal/db"
	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/rs/zerolog"
)

const publishedMarkdown = `%%%
title = "Hello"
date = 2024-06-01T09:00:00Z
category = "engineering"
%%%

World
`

func setupTestRepo(t *testing.T) *DBPostRepository {
	t.Helper()
	SetLogger(zerolog.Nop())
	db.SetLogger(zerolog.Nop())

	database := db.NewSQLite(":memory:")
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewDBPostRepository(database, nil)
}

func TestSaveAndReadPost(t *testing.T) {
	repo := setupTestRepo(t)

	post := repo.NewPost("profile-a")
	post.Title = "Hello"
	post.Markdown = []byte(publishedMarkdown)

	if err := repo.SavePost(post); err != nil {
		t.Fatalf("Failed to save post: %v", err)
	}
	if post.MDContentHash == "" {
		t.Error("Expected content hash to be set")
	}

	// Bypass the cache to exercise decompression
	repo.postsCache.Delete(post.ID)

	got, err := repo.ReadPost(post.ID)
	if err != nil {
		t.Fatalf("Failed to read post: %v", err)
	}
	if !bytes.Equal(got.Markdown, post.Markdown) {
		t.Errorf("Expected markdown %q, got %q", post.Markdown, got.Markdown)
	}
	if got.Profile != "profile-a" {
		t.Errorf("Expected profile 'profile-a', got %q", got.Profile)
	}
	if got.MDContentHash != post.MDContentHash {
		t.Errorf("Expected hash %s, got %s", post.MDContentHash, got.MDContentHash)
	}
	if got.Category() != "engineering" {
		t.Errorf("Expected category from front matter, got %q", got.Category())
	}
}

func TestReadMissingPost(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.ReadPost("missing")
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Expected ErrPostNotFound, got %v", err)
	}
}

func TestSavePostUpserts(t *testing.T) {
	repo := setupTestRepo(t)

	post := repo.NewPost("profile-a")
	post.Title = "First"
	post.Markdown = []byte("Content 1")
	if err := repo.SavePost(post); err != nil {
		t.Fatal(err)
	}
	firstHash := post.MDContentHash

	post.Title = "Second"
	post.Markdown = []byte("Content 2")
	if err := repo.SavePost(post); err != nil {
		t.Fatal(err)
	}

	posts, err := repo.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("Expected 1 post after upsert, got %d", len(posts))
	}
	if posts[0].Title != "Second" {
		t.Errorf("Expected updated title, got %q", posts[0].Title)
	}
	if posts[0].MDContentHash == firstHash {
		t.Error("Different content should produce different hashes")
	}
}

func TestHashComparison(t *testing.T) {
	repo := setupTestRepo(t)

	post1 := repo.NewPost("test")
	post1.Markdown = []byte("Content 1")
	post2 := repo.NewPost("test")
	post2.Markdown = []byte("Content 1")

	if err := repo.SavePost(post1); err != nil {
		t.Fatal(err)
	}
	if err := repo.SavePost(post2); err != nil {
		t.Fatal(err)
	}

	if post1.MDContentHash != post2.MDContentHash {
		t.Error("Same content should produce same hashes")
	}
}

func TestListPosts(t *testing.T) {
	repo := setupTestRepo(t)

	for _, p := range []struct {
		profile model.ProfileID
		title   string
	}{
		{"profile-a", "A1"},
		{"profile-b", "B1"},
		{"profile-a", "A2"},
	} {
		post := repo.NewPost(p.profile)
		post.Title = p.title
		post.Markdown = []byte("# " + p.title)
		if err := repo.SavePost(post); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	all, err := repo.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(all))
	}

	mine, err := repo.ListPosts("profile-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("Expected 2 posts for profile-a, got %d", len(mine))
	}
	if mine[0].Title != "A2" || mine[1].Title != "A1" {
		t.Errorf("Expected newest first, got %q then %q", mine[0].Title, mine[1].Title)
	}
}
