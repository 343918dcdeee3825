package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eventcrew/awardsysbackend/config"
	"github.com/eventcrew/awardsysbackend/services"
	"github.com/eventcrew/awardsysbackend/utils"
)

const maxPhotoUploadBytes = 10 << 20 // 10 MiB

// NomineeHandler exposes the nominee mutations, including photo uploads.
type NomineeHandler struct {
	Service *services.NomineeService
	Cleaner services.FileCleaner
	Cfg     config.Config
}

func NewNomineeHandler(service *services.NomineeService, cleaner services.FileCleaner, cfg config.Config) *NomineeHandler {
	return &NomineeHandler{Service: service, Cleaner: cleaner, Cfg: cfg}
}

// ListNominees returns the active nominees of a category, for clients that
// fetch one category rather than the full state.
func (h *NomineeHandler) ListNominees(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category_id")

	nominees, err := h.Service.ListByCategory(categoryID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, nominees)
}

func (h *NomineeHandler) AddNominee(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category_id")

	var input services.NomineeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	nominee, err := h.Service.AddNominee(actorID(r), requestIP(r), categoryID, input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, nominee)
}

func (h *NomineeHandler) UpdateNominee(w http.ResponseWriter, r *http.Request) {
	id, ok := nomineeID(w, r)
	if !ok {
		return
	}

	var update services.NomineeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	nominee, err := h.Service.UpdateNominee(actorID(r), requestIP(r), id, update)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, nominee)
}

func (h *NomineeHandler) DeleteNominee(w http.ResponseWriter, r *http.Request) {
	id, ok := nomineeID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteNominee(actorID(r), requestIP(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadNomineePhoto accepts a multipart upload, normalizes it into the
// photo store and swaps the nominee's photo reference. The superseded file
// is scheduled for best-effort removal by the service.
func (h *NomineeHandler) UploadNomineePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := nomineeID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Failed to parse multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Missing 'photo' file field")
		return
	}
	defer file.Close()

	if !utils.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Unsupported image type")
		return
	}

	// stage the upload so the image pipeline can re-open it for EXIF
	tmp, err := os.CreateTemp("", "nominee-photo-*"+filepath.Ext(header.Filename))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		WriteAPIError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	tmp.Close()

	photoFilename, err := utils.ProcessNomineePhoto(tmpPath, h.Cfg.PhotosPath, h.Cfg.PhotoMaxSize)
	if err != nil {
		log.Printf("photo processing failed for nominee %d: %v", id, err)
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Could not process image")
		return
	}

	nominee, err := h.Service.SetNomineePhoto(actorID(r), requestIP(r), id, photoFilename)
	if err != nil {
		// the mutation never happened; don't leave the new file behind
		h.Cleaner.Enqueue(photoFilename)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, nominee)
}

func (h *NomineeHandler) DeleteNomineePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := nomineeID(w, r)
	if !ok {
		return
	}

	nominee, err := h.Service.ClearNomineePhoto(actorID(r), requestIP(r), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, nominee)
}

func nomineeID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "nominee_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid nominee ID format")
		return 0, false
	}
	return uint(id), true
}
