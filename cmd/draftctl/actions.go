package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/db"
	"github.com/debemdeboas/inkdraft/internal/draft"
	"github.com/debemdeboas/inkdraft/internal/editor"
	"github.com/debemdeboas/inkdraft/internal/export"
	"github.com/debemdeboas/inkdraft/internal/keys"
	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/debemdeboas/inkdraft/internal/repository"
	"github.com/debemdeboas/inkdraft/internal/storage"
	"github.com/debemdeboas/inkdraft/internal/util"
	"github.com/debemdeboas/inkdraft/internal/util/compression"
)

const timeLayout = "2006-01-02 15:04:05"

var errNoDraft = errors.New("no saved draft")

// env is what every command needs: config plus the opened stores.
type env struct {
	cfg   *config.Config
	db    db.DB
	kv    storage.KV
	codec compression.Compressor
	out   printer
}

func openEnv(c *cli.Context) (*env, error) {
	// The CLI reports through its own output; library logs stay quiet.
	config.SetLogger(zerolog.Nop())
	storage.SetLogger(zerolog.Nop())
	db.SetLogger(zerolog.Nop())
	repository.SetLogger(zerolog.Nop())

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	codec, err := compression.New(cfg.Storage.Compression)
	if err != nil {
		return nil, err
	}
	database, kv, err := storage.Open(cfg.Storage, codec)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:   cfg,
		db:    database,
		kv:    kv,
		codec: codec,
		out:   printer{w: c.App.Writer, noColor: c.Bool("no-color") || os.Getenv("NO_COLOR") != ""},
	}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

func (e *env) drafts(profile string) *draft.Store {
	return draft.NewStore(e.kv, draft.Key(profile, e.cfg.Editor.DraftKey))
}

func (e *env) loadDraft(profile string) (draft.Record, error) {
	rec, err := e.drafts(profile).Load()
	if errors.Is(err, draft.ErrNotFound) {
		return rec, fmt.Errorf("%w for profile %q", errNoDraft, profile)
	}
	return rec, err
}

func ShowAction(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := e.loadDraft(c.String("profile"))
	if err != nil {
		return err
	}

	stats := editor.ComputeStats(rec.Content, e.cfg.Editor.WordsPerMinute)

	title := rec.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	e.out.title(title)
	e.out.field("Saved", rec.SavedAt.Local().Format(timeLayout))
	e.out.field("Words", strconv.Itoa(stats.Words))
	e.out.field("Chars", strconv.Itoa(stats.Characters))
	e.out.field("Images", strconv.Itoa(stats.Images))
	e.out.field("Reading", fmt.Sprintf("%d min", stats.ReadingMinutes))
	return nil
}

func ExportAction(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := e.loadDraft(c.String("profile"))
	if err != nil {
		return err
	}

	md, err := export.New().Markdown(editor.Snapshot{
		Title:   rec.Title,
		Content: rec.Content,
	}, rec.SavedAt)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, md, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		e.out.ok("Exported to " + out)
		return nil
	}

	_, err = c.App.Writer.Write(md)
	return err
}

func ClearAction(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	profile := c.String("profile")
	if err := e.drafts(profile).Clear(); err != nil {
		return err
	}
	e.out.ok(fmt.Sprintf("Draft of %q cleared", profile))
	return nil
}

func ImportAction(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	dir := c.String("path")
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	repo := repository.NewDBPostRepository(e.db, e.codec)
	profile := model.ProfileID(c.String("profile"))

	imported := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}
		post, err := importFile(repo, profile, filepath.Join(dir, file.Name()))
		if err != nil {
			fmt.Fprintln(c.App.ErrWriter, e.out.style(errorStyle).Render(
				fmt.Sprintf("Error processing file %s: %v", file.Name(), err)))
			continue
		}
		e.out.field("Imported", fmt.Sprintf("%s (%s)", post.GetTitle(), post.ID))
		imported++
	}

	e.out.ok(fmt.Sprintf("%d post(s) imported", imported))
	return nil
}

// importFile saves one Markdown file as a post. The front matter title wins
// over the file name, and its date over the file's modification time.
func importFile(repo repository.PostRepository, profile model.ProfileID, path string) (*model.Post, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	post := repo.NewPost(profile)
	post.Markdown = content
	post.Title = strings.TrimSuffix(filepath.Base(path), ".md")
	post.CreatedDate = stat.ModTime().UTC()

	if fm, err := util.GetFrontMatter(content); err == nil {
		if fm.Title != "" {
			post.Title = fm.Title
		}
		if !fm.Date.IsZero() {
			post.CreatedDate = fm.Date.UTC()
		}
	}

	if err := repo.SavePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

func PostsAction(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	posts, err := repository.NewDBPostRepository(e.db, e.codec).ListPosts(model.ProfileID(c.String("profile")))
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(e.out.w, "No posts found")
		return nil
	}

	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			string(p.ID),
			p.GetTitle(),
			string(p.Profile),
			p.ModifiedDate.Local().Format(timeLayout),
		})
	}
	e.out.table([]string{"ID", "Title", "Profile", "Modified"}, rows)
	fmt.Fprintf(e.out.w, "\nTotal: %d posts\n", len(posts))
	return nil
}


func KeysAction(c *cli.Context) error {
	out := printer{w: c.App.Writer, noColor: c.Bool("no-color") || os.Getenv("NO_COLOR") != ""}
	out.title("Shortcuts")
	for _, line := range keys.DefaultKeyMap().Help() {
		fmt.Fprintln(out.w, "  "+line)
	}
	return nil
}
