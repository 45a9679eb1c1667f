package attachment

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/gastaro/gastaro/internal/auth"
	"github.com/gastaro/gastaro/internal/transport"
	"github.com/gastaro/gastaro/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Storage *Storage
}

func NewHandler(storage *Storage) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Storage:     storage,
	}
}

// Upload accepts a multipart form with a single "file" part and returns
// the reference to store on an expense.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Storage.MaxSize())
	if err := r.ParseMultipartForm(h.Storage.MaxSize()); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.WriteError(w, http.StatusRequestEntityTooLarge, "attachment exceeds size limit")
			return
		}
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = sniffContentType(file)
	}

	ref, err := h.Storage.Save(file, contentType)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"ref": ref,
		"url": "/api/v1/attachments/" + ref,
	})
}

// Download streams a stored attachment back to an authenticated user.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ref := chi.URLParam(r, "ref")
	f, err := h.Storage.Open(ref)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", ContentTypeFor(ref))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.Logger.Error("failed to stream attachment", "error", err, "ref", ref)
	}
}

func sniffContentType(file io.ReadSeeker) string {
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	file.Seek(0, io.SeekStart)
	return http.DetectContentType(buf[:n])
}
