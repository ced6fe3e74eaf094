package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/export"
	"github.com/abrezinsky/rosterdraw/internal/services"
)

func (h *Handlers) handleGetGroups(w http.ResponseWriter, r *http.Request) {
	set := h.Grouping.Current(r.Context())
	if set == nil {
		respondError(w, services.ErrNoGroups)
		return
	}
	respondOK(w, set)
}

func (h *Handlers) handleGenerateGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GroupsRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.GroupSize == 0 {
		size, err := h.Settings.DefaultGroupSize(ctx)
		if err != nil {
			respondError(w, err)
			return
		}
		req.GroupSize = size
	}

	set, err := h.Grouping.Generate(ctx, req.GroupSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, set)
}

// handleExportGroups downloads the latest groups as CSV
func (h *Handlers) handleExportGroups(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Grouping.ExportCSV(r.Context(), &buf); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.Write(buf.Bytes())
}

func (h *Handlers) handleGetGroupRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Grouping.Runs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, GroupRunsResponse{Runs: runs})
}

func (h *Handlers) handleGetGroupRun(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	run, err := h.Grouping.Run(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, run)
}
