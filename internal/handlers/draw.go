package handlers

import (
	"net/http"
	"strconv"
)

func (h *Handlers) handleGetDraw(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Draw.State(r.Context()))
}

// handleDraw starts a spin. With ?wait=true the response carries the winner;
// otherwise it returns 202 and the winner arrives over the websocket.
func (h *Handlers) handleDraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	spin, err := h.Draw.Draw(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	if !queryBool(r, "wait") {
		respondAccepted(w, DrawStartedResponse{
			Spinning:    true,
			AllowRepeat: spin.AllowRepeat(),
			Candidates:  spin.Candidates(),
		})
		return
	}

	out, err := spin.Wait(ctx)
	if err != nil {
		// Client went away; the spin still commits
		return
	}
	if out.Canceled {
		respondError(w, Conflict("Draw was canceled by a reset or roster change"))
		return
	}
	respondOK(w, DrawResultResponse{Winner: out.Winner, State: h.Draw.State(ctx)})
}

func (h *Handlers) handleSetDrawMode(w http.ResponseWriter, r *http.Request) {
	var req DrawModeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Draw.SetRepeatMode(r.Context(), req.AllowRepeat))
}

func (h *Handlers) handleResetDraw(w http.ResponseWriter, r *http.Request) {
	confirm, err := confirmed(r)
	if err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Draw.Reset(r.Context(), confirm)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleGetDrawResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, BadRequest("Invalid limit parameter"))
			return
		}
		limit = n
	}

	results, err := h.Draw.Results(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, DrawResultsResponse{Results: results})
}
