package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/export"
	"github.com/debemdeboas/inkdraft/internal/render"
	"github.com/debemdeboas/inkdraft/internal/theme"
	"github.com/debemdeboas/inkdraft/internal/upload"
	"github.com/debemdeboas/inkdraft/internal/util"
)

const imageFormField = "image"

type uploadResponse struct {
	URL string `json:"url"`
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	purpose, err := upload.ParsePurpose(chi.URLParam(r, "purpose"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.opts.MaxUploadBytes > 0 {
		// Leave room for the multipart envelope; the uploader enforces the exact limit.
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1<<20)
	}

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, r, fmt.Errorf("%w: %v", upload.ErrTooLarge, err))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	defer file.Close()

	img := upload.Image{
		Name:        header.Filename,
		ContentType: header.Header.Get(config.HCType),
		Size:        header.Size,
		Body:        file,
	}

	url, err := sessionFrom(r).UploadImage(r.Context(), purpose, img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}

func (s *Server) removeFeaturedImage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.RemoveFeaturedImage()
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	md, err := sessionFrom(r).Markdown()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeRendered(w, r, md, util.ContentHash(md))
}

func (s *Server) writeRendered(w http.ResponseWriter, r *http.Request, md []byte, hash string) {
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r)
	html, _ := render.RenderMarkdownCached(md, hash, syntaxTheme)

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.Header().Set(config.HETag, util.ContentHashString(hash+syntaxTheme))
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func (s *Server) exportMarkdown(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	md, err := sess.Markdown()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := export.FileName(sess.Snapshot().Title)
	w.Header().Set(config.HCType, config.CTypeMarkdown)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(md)
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	post, err := sessionFrom(r).Publish()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func serveSyntaxTheme(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "theme")
	if !theme.IsSyntaxTheme(name) {
		http.NotFound(w, r)
		return
	}

	themeStyle := []byte(theme.GenerateSyntaxCSS(name))
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}
