package handlers

import (
	"net/http"

	"github.com/abrezinsky/rosterdraw/internal/services"
)

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req services.SettingsUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	settings, err := h.Settings.UpdateSettings(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

// handleViewerQR renders a QR code that opens the viewer page on a phone
func (h *Handlers) handleViewerQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Settings.ViewerQRCode(r.Context(), requestBaseURL(r))
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// requestBaseURL rebuilds scheme://host from the incoming request
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
