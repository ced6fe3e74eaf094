package handlers

import (
	"net/http"

	"github.com/abrezinsky/rosterdraw/internal/partition"
)

// handleIndex renders the viewer screen: live draw and groups, no controls
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, false)
}

// handleHost renders the same page with the host controls enabled
func (h *Handlers) handleHost(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, true)
}

func (h *Handlers) renderIndex(w http.ResponseWriter, r *http.Request, isHost bool) {
	size, err := h.Settings.DefaultGroupSize(r.Context())
	if err != nil {
		size = partition.DefaultGroupSize
	}

	title := "Lucky Draw"
	if isHost {
		title = "Lucky Draw - Host"
	}

	h.templates.Index.Execute(w, PageData{
		Title:            title,
		IsHost:           isHost,
		DefaultGroupSize: size,
		MinGroupSize:     partition.MinGroupSize,
		MaxGroupSize:     partition.MaxGroupSize,
	})
}
