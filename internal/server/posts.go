package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/debemdeboas/inkdraft/internal/session"
)

// listPosts returns the posts of the calling profile.
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	if s.opts.Posts == nil {
		s.writeError(w, r, session.ErrPublishDisabled)
		return
	}

	cookie, err := r.Cookie(config.CookieProfileID)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, []model.Post{})
		return
	}

	posts, err := s.opts.Posts.ListPosts(model.ProfileID(cookie.Value))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// readPost serves a published post as Markdown, or as HTML with ?format=html.
func (s *Server) readPost(w http.ResponseWriter, r *http.Request) {
	if s.opts.Posts == nil {
		s.writeError(w, r, session.ErrPublishDisabled)
		return
	}

	post, err := s.opts.Posts.ReadPost(model.PostID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		s.writeRendered(w, r, post.Markdown, post.MDContentHash)
		return
	}

	w.Header().Set(config.HCType, config.CTypeMarkdown)
	w.Header().Set(config.HETag, post.MDContentHash)
	w.WriteHeader(http.StatusOK)
	w.Write(post.Markdown)
}
