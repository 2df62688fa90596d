// Package session composes the editor components into one post-editing
// session owned by a profile.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/debemdeboas/inkdraft/internal/assist"
	"github.com/debemdeboas/inkdraft/internal/autosave"
	"github.com/debemdeboas/inkdraft/internal/draft"
	"github.com/debemdeboas/inkdraft/internal/editor"
	"github.com/debemdeboas/inkdraft/internal/export"
	"github.com/debemdeboas/inkdraft/internal/history"
	"github.com/debemdeboas/inkdraft/internal/keys"
	"github.com/debemdeboas/inkdraft/internal/metrics"
	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/debemdeboas/inkdraft/internal/notify"
	"github.com/debemdeboas/inkdraft/internal/repository"
	"github.com/debemdeboas/inkdraft/internal/richtext"
	"github.com/debemdeboas/inkdraft/internal/storage"
	"github.com/debemdeboas/inkdraft/internal/upload"
	"github.com/rs/zerolog"
)

// recentToasts is how many toasts a View carries for clients without an
// event stream.
const recentToasts = 5

var (
	ErrClosed          = errors.New("session: closed")
	ErrAssistDisabled  = errors.New("session: AI assist is not configured")
	ErrUploadDisabled  = errors.New("session: image upload is not configured")
	ErrPublishDisabled = errors.New("session: publishing is not configured")
)

// Config holds the editor knobs shared by every session.
type Config struct {
	DraftKey       string
	AutosaveDelay  time.Duration
	EmptyDocument  string
	WordsPerMinute int
	History        richtext.HistoryOptions
	KeyMap         keys.KeyMap
	// IdleTimeout is how long a Manager keeps an unused session open.
	IdleTimeout time.Duration
}

// Deps are the collaborators of a session. Gateway, Uploader and Posts may be
// nil; the matching operations then fail.
type Deps struct {
	KV       storage.KV
	Gateway  assist.Gateway
	Uploader upload.Uploader
	Posts    repository.PostRepository
	Exporter *export.Exporter
	Notifier notify.Notifier
	Logger   zerolog.Logger

	// Overridable for tests
	AfterFunc autosave.AfterFunc
	Now       func() time.Time
}

type Session struct {
	id      string
	profile model.ProfileID
	cfg     Config
	deps    Deps
	logger  zerolog.Logger

	notifier notify.Notifier
	toasts   *notify.Recorder

	state     *editor.State
	doc       *richtext.Document
	history   *history.Controller
	drafts    *draft.Store
	autosave  *autosave.Scheduler
	assistant *assist.Assistant

	mu       sync.Mutex
	closed   bool
	restored bool
	postID   model.PostID
}

func New(id string, profile model.ProfileID, cfg Config, deps Deps) *Session {
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Exporter == nil {
		deps.Exporter = export.New()
	}

	s := &Session{
		id:      id,
		profile: profile,
		cfg:     cfg,
		deps:    deps,
		logger:  deps.Logger.With().Str("session_id", id).Str("profile_id", string(profile)).Logger(),
		toasts:  notify.NewRecorder(recentToasts),
	}
	s.notifier = notify.Multi{deps.Notifier, s.toasts}

	s.state = editor.NewState(editor.Options{
		EmptyDocument:  cfg.EmptyDocument,
		WordsPerMinute: cfg.WordsPerMinute,
	})
	s.doc = richtext.NewDocument(s.state.EmptyDocument(), cfg.History)
	s.history = history.NewController(s.doc)
	s.drafts = draft.NewStore(deps.KV, draft.Key(string(profile), cfg.DraftKey))

	s.autosave = autosave.New(s.drafts, s.draftSnapshot, autosave.Options{
		Delay:     cfg.AutosaveDelay,
		AfterFunc: deps.AfterFunc,
		Now:       deps.Now,
		OnError: func(err error) {
			metrics.Autosaves.WithLabelValues(metrics.ResultError).Inc()
			s.logger.Error().Err(err).Msg("Autosave failed")
			notify.Error(s.notifier, msgDraftSaveFail)
		},
		OnSaved: func(rec draft.Record) {
			metrics.Autosaves.WithLabelValues(metrics.ResultOK).Inc()
			s.logger.Debug().Time("saved_at", rec.SavedAt).Msg("Draft autosaved")
		},
	})

	if deps.Gateway != nil {
		s.assistant = assist.New(deps.Gateway, target{s}, assist.Options{
			Notifier: s.notifier,
			Logger:   s.logger,
			Observe: func(op assist.Operation, outcome assist.Outcome) {
				metrics.AIRequests.WithLabelValues(string(op), string(outcome)).Inc()
			},
		})
	}

	// The document owns the content; the state mirrors it.
	s.doc.OnChange(func(markup string, _ richtext.Source) {
		s.state.SetContent(markup)
	})
	s.state.OnChange(func(f editor.Field) {
		if f == editor.FieldTitle || f == editor.FieldContent {
			s.autosave.Touch()
		}
	})

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Profile() model.ProfileID {
	return s.profile
}

func (s *Session) draftSnapshot() (string, string) {
	snap := s.state.Snapshot()
	return snap.Title, snap.Content
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Mount offers the saved draft for restoration. Content is restored only when
// the editor holds no content and the draft does; the title only when empty.
func (s *Session) Mount() bool {
	rec, err := s.drafts.Load()
	if err != nil {
		if !errors.Is(err, draft.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("Ignoring unreadable draft")
		}
		return false
	}

	if s.state.HasContent() || !s.state.IsContent(rec.Content) {
		return false
	}

	s.doc.SetContents(rec.Content, richtext.SourceAPI)
	if !s.state.HasTitle() && rec.Title != "" {
		s.state.SetTitle(rec.Title)
	}

	s.mu.Lock()
	s.restored = true
	s.mu.Unlock()

	metrics.DraftRestores.Inc()
	s.logger.Info().Time("saved_at", rec.SavedAt).Msg("Draft restored")
	notify.Info(s.notifier, msgDraftRestored)
	return true
}

func (s *Session) SetTitle(title string) {
	s.state.SetTitle(title)
}

// SetContent applies a user edit to the document.
func (s *Session) SetContent(markup string) {
	s.doc.SetContents(markup, richtext.SourceUser)
}

func (s *Session) SetCategory(category string) {
	s.state.SetCategory(category)
}

func (s *Session) SetTags(tags []string) {
	s.state.SetTags(tags)
}

func (s *Session) AddTag(tag string) {
	s.state.AddTag(tag)
}

func (s *Session) RemoveTag(tag string) {
	s.state.RemoveTag(tag)
}

func (s *Session) SetFeaturedImage(url string) {
	s.state.SetFeaturedImage(url)
}

func (s *Session) RemoveFeaturedImage() {
	s.state.SetFeaturedImage("")
}

func (s *Session) Snapshot() editor.Snapshot {
	return s.state.Snapshot()
}

// SaveDraft persists the current title and content immediately.
func (s *Session) SaveDraft() error {
	if s.isClosed() {
		return ErrClosed
	}

	err := s.autosave.Flush()
	metrics.ManualSaves.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Error().Err(err).Msg("Manual save failed")
		notify.Error(s.notifier, msgDraftSaveFail)
		return err
	}

	notify.Success(s.notifier, msgDraftSaved)
	return nil
}

func (s *Session) ClearDraft() error {
	s.autosave.Cancel()
	if err := s.drafts.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear draft")
		notify.Error(s.notifier, msgDraftClearFail)
		return err
	}
	notify.Success(s.notifier, msgDraftCleared)
	return nil
}

func (s *Session) Generate(ctx context.Context, confirm assist.Confirmer) error {
	if s.assistant == nil {
		return ErrAssistDisabled
	}
	return s.assistant.Generate(ctx, confirm)
}

func (s *Session) Improve(ctx context.Context, kind assist.Kind) error {
	if s.assistant == nil {
		return ErrAssistDisabled
	}
	return s.assistant.Improve(ctx, kind)
}

func (s *Session) Undo() bool {
	return s.history.Undo()
}

func (s *Session) Redo() bool {
	return s.history.Redo()
}

// HandleKey dispatches a keyboard shortcut and returns the action it resolved to.
func (s *Session) HandleKey(stroke keys.Keystroke) (keys.Action, error) {
	action := s.cfg.KeyMap.Resolve(stroke)
	switch action {
	case keys.ActionSave:
		return action, s.SaveDraft()
	case keys.ActionUndo:
		s.Undo()
	case keys.ActionRedo:
		s.Redo()
	}
	return action, nil
}

// UploadImage stores img and attaches it: as the featured image, or appended
// to the content as a new paragraph.
func (s *Session) UploadImage(ctx context.Context, purpose upload.Purpose, img upload.Image) (string, error) {
	if s.deps.Uploader == nil {
		return "", ErrUploadDisabled
	}

	url, err := s.deps.Uploader.Upload(ctx, purpose, img)
	if err != nil {
		s.logger.Error().Err(err).Str("purpose", string(purpose)).Msg("Image upload failed")
		notify.Error(s.notifier, msgImageFailed)
		return "", err
	}

	switch purpose {
	case upload.PurposeFeatured:
		s.state.SetFeaturedImage(url)
	case upload.PurposeContent:
		s.doc.Cutoff()
		s.doc.SetContents(appendImage(s.state, url), richtext.SourceUser)
	}

	s.logger.Info().Str("purpose", string(purpose)).Str("url", url).Msg("Image uploaded")
	notify.Success(s.notifier, msgImageUploaded)
	return url, nil
}

func appendImage(state *editor.State, url string) string {
	img := fmt.Sprintf(`<p><img src="%s"></p>`, strings.ReplaceAll(url, `"`, "%22"))
	if !state.HasContent() {
		return img
	}
	return state.Content() + img
}

// Markdown exports the session as an mmark document dated now.
func (s *Session) Markdown() ([]byte, error) {
	return s.deps.Exporter.Markdown(s.state.Snapshot(), s.deps.Now())
}

// Publish stores the exported post. Publishing again updates the same post.
func (s *Session) Publish() (*model.Post, error) {
	if s.deps.Posts == nil {
		return nil, ErrPublishDisabled
	}

	md, err := s.Markdown()
	if err != nil {
		notify.Error(s.notifier, msgPublishFailed)
		return nil, fmt.Errorf("export post: %w", err)
	}

	s.mu.Lock()
	postID := s.postID
	s.mu.Unlock()

	post := s.deps.Posts.NewPost(s.profile)
	if postID != "" {
		post.ID = postID
	}
	post.Title = strings.TrimSpace(s.state.Title())
	post.Markdown = md

	if err := s.deps.Posts.SavePost(post); err != nil {
		s.logger.Error().Err(err).Msg("Publish failed")
		notify.Error(s.notifier, msgPublishFailed)
		return nil, err
	}

	s.mu.Lock()
	s.postID = post.ID
	s.mu.Unlock()

	s.logger.Info().Str("post_id", string(post.ID)).Msg("Post published")
	notify.Success(s.notifier, msgPublished)
	return post, nil
}

// Close stops autosave and drops in-flight AI responses.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.autosave.Stop()
	if s.assistant != nil {
		s.assistant.Close()
	}
}

// target exposes the session content to the assistant.
type target struct {
	s *Session
}

func (t target) Snapshot() editor.Snapshot { return t.s.state.Snapshot() }
func (t target) HasTitle() bool            { return t.s.state.HasTitle() }
func (t target) HasContent() bool          { return t.s.state.HasContent() }

// ReplaceContent records the AI result as one undoable step.
func (t target) ReplaceContent(markup string) {
	t.s.doc.Cutoff()
	t.s.doc.SetContents(markup, richtext.SourceUser)
}
