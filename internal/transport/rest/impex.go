package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/zinote-backend/internal/config"
	"github.com/heartmarshall/zinote-backend/internal/service/impex"
)

type impexService interface {
	Import(ctx context.Context, collection string, f impex.Format, r io.Reader) (*impex.ImportResult, error)
	Export(ctx context.Context, collection string, f impex.Format, w io.Writer) (int, error)
}

// ImpexHandler serves file import and export endpoints.
type ImpexHandler struct {
	svc            impexService
	features       config.FeaturesConfig
	maxUploadBytes int64
	now            func() time.Time
	log            *slog.Logger
}

// NewImpexHandler creates an ImpexHandler.
func NewImpexHandler(svc impexService, features config.FeaturesConfig, maxUploadBytes int64, logger *slog.Logger) *ImpexHandler {
	return &ImpexHandler{
		svc:            svc,
		features:       features,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
		log:            logger.With("handler", "impex"),
	}
}

// Import handles POST /import?format=. The body is either the raw file or a
// multipart form with a "file" part.
func (h *ImpexHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !h.features.EnableImport {
		http.NotFound(w, r)
		return
	}

	f, err := impex.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	body, err := h.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	res, err := h.svc.Import(r.Context(), collectionParam(r), f, bytes.NewReader(body))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Export handles GET /export?format= and streams the file as an attachment.
func (h *ImpexHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.features.EnableExport {
		http.NotFound(w, r)
		return
	}

	f, err := impex.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	collection := collectionParam(r)
	var buf bytes.Buffer
	n, err := h.svc.Export(r.Context(), collection, f, &buf)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	name := impex.ExportFileName(collection, f, h.now())
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("X-Record-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (h *ImpexHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return io.ReadAll(r.Body)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
