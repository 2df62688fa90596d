package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/debemdeboas/inkdraft/internal/cache"
	"github.com/debemdeboas/inkdraft/internal/db"
	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/debemdeboas/inkdraft/internal/util"
	"github.com/debemdeboas/inkdraft/internal/util/compression"
	"github.com/google/uuid"
)

type DBPostRepository struct { // implements PostRepository
	postsCache *cache.Cache[model.PostID, *model.Post]

	db         db.DB
	compressor compression.Compressor
}

// NewDBPostRepository compresses post bodies with codec, or zstd when codec
// is nil.
func NewDBPostRepository(db db.DB, codec compression.Compressor) *DBPostRepository {
	if codec == nil {
		codec = compression.Default()
	}
	return &DBPostRepository{
		postsCache: cache.NewCache[model.PostID, *model.Post](),

		db: db,

		compressor: codec,
	}
}

func (r *DBPostRepository) NewPost(profile model.ProfileID) *model.Post {
	now := time.Now().UTC()

	return &model.Post{
		ID: model.PostID(uuid.New().String()),

		CreatedDate:  now,
		ModifiedDate: now,

		Profile: profile,
	}
}

func (r *DBPostRepository) SavePost(post *model.Post) error {
	compressed, err := r.compressor.Compress(post.Markdown)
	if err != nil {
		return fmt.Errorf("error compressing content: %w", err)
	}

	// The hash covers the stored bytes
	post.MDContentHash = util.ContentHash(compressed)
	post.ModifiedDate = time.Now().UTC()
	if post.CreatedDate.IsZero() {
		post.CreatedDate = post.ModifiedDate
	}

	if info, err := util.GetFrontMatter(post.Markdown); err == nil {
		post.Info = info
	}

	res, err := r.db.Exec(
		`INSERT INTO posts (id, title, content, md_content_hash, created_at, modified_at, profile_id) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, content = excluded.content, md_content_hash = excluded.md_content_hash, modified_at = excluded.modified_at`,
		post.ID, post.Title, compressed, post.MDContentHash, post.CreatedDate, post.ModifiedDate, post.Profile,
	)
	if err != nil {
		return fmt.Errorf("error saving post: %w", err)
	}

	rows, _ := res.RowsAffected()
	repoLogger.Debug().
		Str("post_id", string(post.ID)).
		Str("content_hash", post.MDContentHash).
		Int64("rows", rows).
		Msg("Post saved")

	stored := *post
	r.postsCache.Set(post.ID, &stored)
	return nil
}

func (r *DBPostRepository) ReadPost(id model.PostID) (*model.Post, error) {
	if post, ok := r.postsCache.Get(id); ok {
		return post, nil
	}

	row := r.db.QueryRow(
		`SELECT id, title, content, md_content_hash, created_at, modified_at, profile_id FROM posts WHERE id = ?`, id,
	)
	post, err := r.scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	r.postsCache.Set(post.ID, post)
	return post, nil
}

func (r *DBPostRepository) ListPosts(profile model.ProfileID) ([]model.Post, error) {
	query := `SELECT id, title, content, md_content_hash, created_at, modified_at, profile_id FROM posts`
	var args []interface{}
	if profile != "" {
		query += ` WHERE profile_id = ?`
		args = append(args, profile)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return -a.ModifiedDate.Compare(b.ModifiedDate)
	})

	return posts, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *DBPostRepository) scanPost(s scanner) (*model.Post, error) {
	var post model.Post
	var compressed []byte
	var profile sql.NullString

	err := s.Scan(&post.ID, &post.Title, &compressed, &post.MDContentHash, &post.CreatedDate, &post.ModifiedDate, &profile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning post: %w", err)
	}
	post.Profile = model.ProfileID(profile.String)

	content, err := r.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing content: %w", err)
	}
	post.Markdown = content

	if info, err := util.GetFrontMatter(content); err == nil {
		post.Info = info
	}

	return &post, nil
}
