package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// defaultMaxUploadBytes bounds a post submission including its media.
const defaultMaxUploadBytes = 32 << 20

// FeedHandlers serves feed views and post mutations.
type FeedHandlers struct {
	Views          *service.FeedViews
	Compose        *service.ComposeService
	SignInPath     string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// ContextForPath maps a view path to its feed context.
func ContextForPath(path, query string) (feed.Context, error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case path == "/" || path == "/explore":
		return feed.Global(), nil
	case path == "/search":
		return feed.Search(query), nil
	case len(segs) == 2 && segs[0] == "post":
		return feed.Post(segs[1]), nil
	case len(segs) == 2 && segs[0] == "users":
		return feed.User(segs[1]), nil
	case len(segs) == 2 && segs[0] == "hashtag":
		return feed.Hashtag(segs[1]), nil
	default:
		return feed.Context{}, apperrors.Validationf("no feed for view %q", path)
	}
}

// Global serves the home and explore feeds.
func (h *FeedHandlers) Global(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, feed.Global())
}

// Post serves a single post.
func (h *FeedHandlers) Post(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, feed.Post(r.PathValue("id")))
}

// User serves a user's posts.
func (h *FeedHandlers) User(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, feed.User(r.PathValue("id")))
}

// Hashtag serves posts carrying a tag.
func (h *FeedHandlers) Hashtag(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, feed.Hashtag(r.PathValue("tag")))
}

// Search serves posts matching ?q=.
func (h *FeedHandlers) Search(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, feed.Search(r.URL.Query().Get("q")))
}

// serve mounts the view on first access and returns its snapshot. While the
// first load is in flight the snapshot is in the loading state. ?refresh=1
// runs a manual refresh first.
func (h *FeedHandlers) serve(w http.ResponseWriter, r *http.Request, c feed.Context) {
	view, err := h.Views.Mount(r.Context(), c)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if r.URL.Query().Get("refresh") == "1" {
		snap, err := view.Refresh(r.Context())
		if err != nil && apperrors.IsUnauthorized(err) {
			h.renderError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, snap)
		return
	}
	WriteJSON(w, http.StatusOK, view.Snapshot())
}

// Create submits a new post. Multipart submissions may carry media files in
// the "media" field; the optional "role" field applies to all of them.
func (h *FeedHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var (
		draft feed.Draft
		files []upload.File
	)
	if isJSON(r) {
		if !DecodeJSON(w, r, &draft) {
			return
		}
	} else {
		var err error
		if draft, files, err = h.parseMultipart(w, r); err != nil {
			h.renderError(w, r, err)
			return
		}
	}

	post, err := h.Compose.Create(r.Context(), draft, files)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, post)
}

func (h *FeedHandlers) parseMultipart(w http.ResponseWriter, r *http.Request) (feed.Draft, []upload.File, error) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return feed.Draft{}, nil, apperrors.ValidationField("media", "Files are too large.")
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return feed.Draft{}, nil, apperrors.Validation("Could not read the form.")
		}
	}

	draft := feed.Draft{
		Title:      r.FormValue("title"),
		Caption:    r.FormValue("caption"),
		Tags:       r.Form["tags"],
		Location:   r.FormValue("location"),
		Visibility: r.FormValue("visibility"),
	}
	if r.MultipartForm == nil {
		return draft, nil, nil
	}

	role := upload.ParseFileRole(r.FormValue("role"))
	headers := r.MultipartForm.File["media"]
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return draft, nil, apperrors.ValidationField("media", "Could not read "+fh.Filename+".")
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return draft, nil, apperrors.ValidationField("media", "Could not read "+fh.Filename+".")
		}
		files = append(files, upload.File{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Role:     role,
			Content:  content,
		})
	}
	return draft, files, nil
}

// Delete removes a post; mounted feeds are refetched.
func (h *FeedHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Compose.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FeedHandlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	RenderError(ErrorOpts{W: w, R: r, Err: err, SignInPath: h.SignInPath, Logger: h.Logger})
}
