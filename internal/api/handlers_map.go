package api

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/tablekeep/tablekeep/internal/api/respond"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/services"
)

const defaultMaxUpload int64 = 20 << 20

// MapHandler serves map uploads, downloads and deletes.
type MapHandler struct {
	svc       *services.MapService
	maxUpload int64
}

func NewMapHandler(svc *services.MapService, maxUpload int64) *MapHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &MapHandler{svc: svc, maxUpload: maxUpload}
}

// UploadMap POST /api/campaigns/{campaignId}/maps
// multipart/form-data with fields title, description and file.
func (h *MapHandler) UploadMap(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.WriteError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respond.WriteBadRequest(w, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.WriteBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	m, err := h.svc.UploadMap(r.Context(), auth.UserID(r.Context()), services.Upload{
		CampaignID:  mux.Vars(r)["campaignId"],
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, m)
}

// ListMaps GET /api/maps
func (h *MapHandler) ListMaps(w http.ResponseWriter, r *http.Request) {
	ms, err := h.svc.ListMaps(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"maps": ms, "count": len(ms)})
}

// DownloadMap GET /api/maps/{mapId}/file
func (h *MapHandler) DownloadMap(w http.ResponseWriter, r *http.Request) {
	m, obj, err := h.svc.OpenMap(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["mapId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	defer obj.Close()

	contentType := m.FileType
	if contentType == "" {
		contentType = obj.ContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(m.FileKey)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj); err != nil {
		log.Warn().Err(err).Str("map_id", m.ID).Msg("map download interrupted")
	}
}

// DeleteMap DELETE /api/maps/{mapId}
func (h *MapHandler) DeleteMap(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMap(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["mapId"]); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
