package handlers

import (
	"io"
	"net/http"
	"strings"
)

func (h *Handlers) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Roster.GetRoster(r.Context()))
}

func (h *Handlers) handleSetRosterText(w http.ResponseWriter, r *http.Request) {
	var req RosterTextRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Roster.SetText(r.Context(), req.Text))
}

// handleImportRoster accepts a multipart "file" field or the raw file as the body
func (h *Handlers) handleImportRoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var (
		content []byte
		err     error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			respondError(w, BadRequest("Missing file field: "+ferr.Error()))
			return
		}
		defer file.Close()
		content, err = io.ReadAll(file)
	} else {
		content, err = io.ReadAll(r.Body)
	}
	if err != nil {
		respondError(w, BadRequest("Failed to read upload: "+err.Error()))
		return
	}

	summary, err := h.Roster.ImportFile(r.Context(), content)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, summary)
}

func (h *Handlers) handleDedupeRoster(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Roster.Dedupe(r.Context()))
}

func (h *Handlers) handleClearRoster(w http.ResponseWriter, r *http.Request) {
	confirm, err := confirmed(r)
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.Roster.Clear(r.Context(), confirm)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, summary)
}

func (h *Handlers) handleLoadSample(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Roster.LoadSample(r.Context()))
}

// confirmed reads the confirm flag from ?confirm=true or a {"confirm":true} body
func confirmed(r *http.Request) (bool, error) {
	if queryBool(r, "confirm") {
		return true, nil
	}
	var req ConfirmRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		return false, err
	}
	return req.Confirm, nil
}
