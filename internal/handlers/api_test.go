package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/handlers"
	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/internal/services"
)

// ==================== Roster ====================

func TestRoster_SetTextAndGet(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "Ada\nGrace\nAda"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = ts.anon(http.MethodGet, "/api/roster", nil)
	var summary models.RosterSummary
	decode(t, rec, &summary)
	if summary.Total != 3 || summary.Unique != 2 || len(summary.DuplicateNames) != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRoster_WriteRequiresHost(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/api/roster"},
		{http.MethodPost, "/api/roster/import"},
		{http.MethodPost, "/api/roster/dedupe"},
		{http.MethodPost, "/api/roster/clear"},
		{http.MethodPost, "/api/roster/sample"},
		{http.MethodPost, "/api/draw"},
		{http.MethodPut, "/api/draw/mode"},
		{http.MethodPost, "/api/draw/reset"},
		{http.MethodPost, "/api/groups"},
		{http.MethodGet, "/api/settings"},
	} {
		rec := ts.anon(tc.method, tc.path, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRoster_ImportMultipart(t *testing.T) {
	ts := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "names.csv")
	fw.Write([]byte("name,team\nAda,x\n\"Grace\",y\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/roster/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(ts.cookie)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var summary models.RosterSummary
	decode(t, rec, &summary)
	if summary.Total != 2 || summary.Participants[1].Name != "Grace" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRoster_ImportRawBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/roster/import", "Ada\nGrace\n")
	var summary models.RosterSummary
	decode(t, rec, &summary)
	if summary.Total != 2 {
		t.Errorf("expected 2 participants, got %d", summary.Total)
	}
}

func TestRoster_ImportInvalidEncoding(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/roster/import", []byte{0xff, 0xfe})
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)
}

func TestRoster_DedupeAndSample(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/roster/sample", nil)
	var sample models.RosterSummary
	decode(t, rec, &sample)
	if sample.Total != 15 {
		t.Fatalf("expected 15 sample names, got %d", sample.Total)
	}

	rec = ts.do(http.MethodPost, "/api/roster/dedupe", nil)
	var deduped models.RosterSummary
	decode(t, rec, &deduped)
	if deduped.Total != sample.Unique || len(deduped.DuplicateNames) != 0 {
		t.Errorf("unexpected dedupe result: %+v", deduped)
	}
}

func TestRoster_ClearNeedsConfirm(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "A\nB"})

	rec := ts.do(http.MethodPost, "/api/roster/clear", nil)
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeConfirmationRequired)

	rec = ts.do(http.MethodPost, "/api/roster/clear", handlers.ConfirmRequest{Confirm: true})
	var summary models.RosterSummary
	decode(t, rec, &summary)
	if summary.Total != 0 {
		t.Errorf("expected empty roster, got %d", summary.Total)
	}

	ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "A"})
	if rec := ts.do(http.MethodPost, "/api/roster/clear?confirm=true", nil); rec.Code != http.StatusOK {
		t.Errorf("expected query confirm to work, got %d", rec.Code)
	}
}

func TestRoster_BadJSON(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPut, "/api/roster", "{not json")
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = ts.do(http.MethodPut, "/api/roster", nil)
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeBadRequest)
}

// ==================== Draw ====================

func TestDraw_WaitReturnsWinner(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "X\nY"})

	rec := ts.do(http.MethodPost, "/api/draw?wait=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var first handlers.DrawResultResponse
	decode(t, rec, &first)
	if first.State.PoolSize != 1 || len(first.State.History) != 1 {
		t.Errorf("unexpected state: %+v", first.State)
	}

	rec = ts.do(http.MethodPost, "/api/draw?wait=true", nil)
	var second handlers.DrawResultResponse
	decode(t, rec, &second)
	if second.Winner.Name == first.Winner.Name {
		t.Errorf("expected no repeat, got %s twice", first.Winner.Name)
	}

	rec = ts.do(http.MethodPost, "/api/draw?wait=true", nil)
	expectError(t, rec, http.StatusConflict, handlers.ErrCodePoolExhausted)
}

func TestDraw_AsyncAccepted(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "A\nB\nC"})

	rec := ts.do(http.MethodPost, "/api/draw", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var started handlers.DrawStartedResponse
	decode(t, rec, &started)
	if !started.Spinning || started.Candidates != 3 {
		t.Errorf("unexpected response: %+v", started)
	}

	// Wait for the commit, then let the archive write finish
	deadline := time.Now().Add(2 * time.Second)
	for {
		var state models.DrawState
		decode(t, ts.anon(http.MethodGet, "/api/draw", nil), &state)
		if !state.Spinning {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("spin never committed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	ts.draw.Close()

	rec = ts.do(http.MethodGet, "/api/draw/results", nil)
	var results handlers.DrawResultsResponse
	decode(t, rec, &results)
	if len(results.Results) != 1 {
		t.Errorf("expected 1 archived result, got %d", len(results.Results))
	}
}

func TestDraw_EmptyRoster(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPut, "/api/draw/mode", handlers.DrawModeRequest{AllowRepeat: true})

	rec := ts.do(http.MethodPost, "/api/draw", nil)
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeEmptyRoster)
}

func TestDraw_ModeAndReset(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "A\nB"})

	rec := ts.do(http.MethodPut, "/api/draw/mode", handlers.DrawModeRequest{AllowRepeat: true})
	var state models.DrawState
	decode(t, rec, &state)
	if !state.AllowRepeat {
		t.Fatal("expected repeat mode")
	}

	ts.do(http.MethodPost, "/api/draw?wait=true", nil)
	rec = ts.anon(http.MethodGet, "/api/draw", nil)
	decode(t, rec, &state)
	if state.PoolSize != 2 || len(state.History) != 1 {
		t.Errorf("expected pool untouched in repeat mode: %+v", state)
	}

	expectError(t, ts.do(http.MethodPost, "/api/draw/reset", nil), http.StatusBadRequest, handlers.ErrCodeConfirmationRequired)

	rec = ts.do(http.MethodPost, "/api/draw/reset", handlers.ConfirmRequest{Confirm: true})
	decode(t, rec, &state)
	if len(state.History) != 0 || state.LastWinner != nil {
		t.Errorf("expected history cleared: %+v", state)
	}
}

func TestDraw_ResultsBadLimit(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/draw/results?limit=-1", nil)
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)
}

// ==================== Groups ====================

func TestGroups_GenerateAndExport(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "A\nB\nC\nD\nE"})

	expectError(t, ts.anon(http.MethodGet, "/api/groups", nil), http.StatusNotFound, handlers.ErrCodeNotFound)

	rec := ts.do(http.MethodPost, "/api/groups", handlers.GroupsRequest{GroupSize: 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var set models.GroupSet
	decode(t, rec, &set)
	if len(set.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(set.Groups))
	}
	// The mock names only one group; the rest fall back
	if set.Groups[0].Name != "Otters" || set.Groups[1].Name != "Group 2" || !set.FellBack {
		t.Errorf("unexpected names: %q, %q", set.Groups[0].Name, set.Groups[1].Name)
	}

	rec = ts.anon(http.MethodGet, "/api/groups/export.csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "groups_") {
		t.Errorf("expected groups_ filename, got %s", cd)
	}
	lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Errorf("expected 6 csv lines, got %d", len(lines))
	}

	rec = ts.do(http.MethodGet, "/api/groups/runs", nil)
	var runs handlers.GroupRunsResponse
	decode(t, rec, &runs)
	if len(runs.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs.Runs))
	}

	rec = ts.do(http.MethodGet, "/api/groups/runs/"+strconv.FormatInt(runs.Runs[0].ID, 10), nil)
	var run models.GroupRun
	decode(t, rec, &run)
	if len(run.Groups) != 3 {
		t.Errorf("expected archived groups, got %+v", run)
	}
}

func TestGroups_DefaultSizeFromSettings(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPut, "/api/roster", handlers.RosterTextRequest{Text: "A\nB\nC\nD\nE\nF"})
	size := 3
	ts.do(http.MethodPut, "/api/settings", services.SettingsUpdate{DefaultGroupSize: &size})

	rec := ts.do(http.MethodPost, "/api/groups", nil)
	var set models.GroupSet
	decode(t, rec, &set)
	if set.GroupSize != 3 || len(set.Groups) != 2 {
		t.Errorf("expected 2 groups of 3, got %+v", set)
	}
}

func TestGroups_Errors(t *testing.T) {
	ts := newTestServer(t)

	expectError(t, ts.do(http.MethodPost, "/api/groups", handlers.GroupsRequest{GroupSize: 4}), http.StatusBadRequest, handlers.ErrCodeEmptyRoster)
	expectError(t, ts.do(http.MethodPost, "/api/groups", handlers.GroupsRequest{GroupSize: 25}), http.StatusBadRequest, handlers.ErrCodeValidation)
	expectError(t, ts.anon(http.MethodGet, "/api/groups/export.csv", nil), http.StatusNotFound, handlers.ErrCodeNotFound)
	expectError(t, ts.do(http.MethodGet, "/api/groups/runs/999", nil), http.StatusNotFound, handlers.ErrCodeNotFound)
	expectError(t, ts.do(http.MethodGet, "/api/groups/runs/abc", nil), http.StatusBadRequest, handlers.ErrCodeValidation)
}

// ==================== Settings ====================

func TestSettings_GetUpdate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/settings", nil)
	var settings services.Settings
	decode(t, rec, &settings)
	if settings.DefaultGroupSize != 4 {
		t.Errorf("expected default size 4, got %d", settings.DefaultGroupSize)
	}

	url := "http://192.168.1.20:8080"
	rec = ts.do(http.MethodPut, "/api/settings", services.SettingsUpdate{BaseURL: &url})
	decode(t, rec, &settings)
	if settings.BaseURL != url {
		t.Errorf("expected base url saved, got %q", settings.BaseURL)
	}

	bad := "gopher://x"
	expectError(t, ts.do(http.MethodPut, "/api/settings", services.SettingsUpdate{BaseURL: &bad}), http.StatusBadRequest, handlers.ErrCodeValidation)
}

func TestViewerQR(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.anon(http.MethodGet, "/api/qr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected image/png, got %s", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG body")
	}
}
