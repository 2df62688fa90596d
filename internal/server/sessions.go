package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/debemdeboas/inkdraft/internal/assist"
	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/keys"
	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/debemdeboas/inkdraft/internal/session"
)

type sessionKey struct{}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey{}).(*session.Session)
}

// profileID returns the profile of the request, minting one when the
// cookie is missing.
func profileID(w http.ResponseWriter, r *http.Request) model.ProfileID {
	if cookie, err := r.Cookie(config.CookieProfileID); err == nil && cookie.Value != "" {
		return model.ProfileID(cookie.Value)
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieProfileID,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return model.ProfileID(id)
}

// withSession loads the session named in the path. Sessions of other
// profiles are reported as missing.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.opts.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		cookie, err := r.Cookie(config.CookieProfileID)
		if err != nil || model.ProfileID(cookie.Value) != sess.Profile() {
			s.writeError(w, r, session.ErrNotFound)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	profile := profileID(w, r)
	sess := s.opts.Sessions.Create(profile)
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) viewSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).View())
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Sessions.Close(sessionFrom(r).ID()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateRequest carries the fields to change. Absent fields are left alone.
type updateRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Category      *string   `json:"category"`
	Tags          *[]string `json:"tags"`
	AddTag        *string   `json:"addTag"`
	RemoveTag     *string   `json:"removeTag"`
	FeaturedImage *string   `json:"featuredImage"`
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := sessionFrom(r)
	if req.Title != nil {
		sess.SetTitle(*req.Title)
	}
	if req.Content != nil {
		sess.SetContent(*req.Content)
	}
	if req.Category != nil {
		sess.SetCategory(*req.Category)
	}
	if req.Tags != nil {
		sess.SetTags(*req.Tags)
	}
	if req.AddTag != nil {
		sess.AddTag(*req.AddTag)
	}
	if req.RemoveTag != nil {
		sess.RemoveTag(*req.RemoveTag)
	}
	if req.FeaturedImage != nil {
		sess.SetFeaturedImage(*req.FeaturedImage)
	}

	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) saveDraft(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.SaveDraft(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) clearDraft(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.ClearDraft(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// aiContext outlives the client connection: AI requests cannot be cancelled
// once started.
func (s *Server) aiContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), s.opts.AITimeout)
}

type generateRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := s.aiContext(r)
	defer cancel()

	sess := sessionFrom(r)
	confirm := assist.ConfirmFunc(func(prompt string) bool { return req.Confirm })
	if err := sess.Generate(ctx, confirm); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) improve(w http.ResponseWriter, r *http.Request) {
	kind, err := assist.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := s.aiContext(r)
	defer cancel()

	sess := sessionFrom(r)
	if err := sess.Improve(ctx, kind); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

type historyResponse struct {
	Changed bool         `json:"changed"`
	View    session.View `json:"view"`
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	changed := sess.Undo()
	writeJSON(w, http.StatusOK, historyResponse{Changed: changed, View: sess.View()})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	changed := sess.Redo()
	writeJSON(w, http.StatusOK, historyResponse{Changed: changed, View: sess.View()})
}

type keyResponse struct {
	Action string       `json:"action"`
	View   session.View `json:"view"`
}

// handleKey dispatches a browser keydown event.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var ev keys.Event
	if err := decodeJSON(r, &ev); err != nil {
		s.writeError(w, r, err)
		return
	}
	if ev.Key == "" {
		s.writeError(w, r, errors.Join(errBadRequest, errors.New("key is required")))
		return
	}

	sess := sessionFrom(r)
	action, err := sess.HandleKey(ev.Stroke())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, keyResponse{Action: action.String(), View: sess.View()})
}
