package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PhotoServer serves stored nominee photos from the photo directory. Photos
// are immutable once written (every upload gets a fresh UUID name), so they
// are served with a long cache lifetime.
func PhotoServer(photosDir string) http.HandlerFunc {
	photosDir = filepath.Clean(photosDir)
	log.Printf("serving nominee photos from %s", photosDir)

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		if name == "" || name == "." || name == "/" || strings.Contains(name, "..") {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid photo path")
			return
		}

		fullPath := filepath.Clean(filepath.Join(photosDir, name))
		if !strings.HasPrefix(fullPath, photosDir) {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Forbidden")
			log.Printf("SECURITY: photo request %q resolved outside photo dir", r.URL.Path)
			return
		}

		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			WriteAPIError(w, http.StatusInternalServerError, "internal", "internal server error")
			log.Printf("error stating photo %s: %v", fullPath, err)
			return
		}

		cacheDuration := 7 * 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", int(cacheDuration.Seconds())))
		http.ServeFile(w, r, fullPath)
	}
}
