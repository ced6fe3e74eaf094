package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/auth"
	"github.com/abrezinsky/rosterdraw/internal/handlers"
	"github.com/abrezinsky/rosterdraw/internal/metrics"
	"github.com/abrezinsky/rosterdraw/internal/roster"
	"github.com/abrezinsky/rosterdraw/internal/services"
	"github.com/abrezinsky/rosterdraw/internal/testutil"
	"github.com/abrezinsky/rosterdraw/pkg/naming"
)

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":      &fstest.MapFile{Data: []byte(`<html><body>{{.Title}} host={{.IsHost}} size={{.DefaultGroupSize}}</body></html>`)},
		"host/login.html": &fstest.MapFile{Data: []byte(`<html><body>Login {{.Error}}</body></html>`)},
	}
}

type testServer struct {
	t        *testing.T
	handlers *handlers.Handlers
	router   http.Handler
	draw     *services.DrawService
	namer    *naming.MockClient
	cookie   *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := testutil.NewTestLogger()
	repo := testutil.NewTestRepository(t)
	store := roster.NewStore()
	m := metrics.New()

	rosterSvc := services.NewRosterService(log, store, m)
	drawSvc := services.NewDrawService(log, repo, m, services.DrawOptions{
		Ticks:    2,
		Interval: time.Millisecond,
		Rand:     rand.New(rand.NewPCG(1, 1)),
	})
	store.Subscribe(drawSvc.SyncRoster)
	t.Cleanup(drawSvc.Close)

	namer := naming.NewMockClient(naming.WithTeams([]naming.Team{{Name: "Otters", Motto: "Swim"}}))
	groupSvc := services.NewGroupingService(log, store, repo, namer, m, rand.New(rand.NewPCG(2, 2)))
	settingsSvc := services.NewSettingsService(log, repo)

	h, err := handlers.New(rosterSvc, drawSvc, groupSvc, settingsSvc,
		createTestTemplatesFS(), handlers.NewStaticServer(fstest.MapFS{
			"style.css": &fstest.MapFile{Data: []byte("body{}")},
		}),
		auth.New("test-password"), nil, handlers.NoopHTTPLogger{},
		handlers.Options{CORSOrigins: []string{"http://screen.local"}, Metrics: m.Handler()})
	if err != nil {
		t.Fatalf("handlers.New failed: %v", err)
	}

	ts := &testServer{t: t, handlers: h, router: h.Router(), draw: drawSvc, namer: namer}
	token, _ := h.Auth.Login("test-password")
	ts.cookie = &http.Cookie{Name: auth.CookieName, Value: token}
	return ts
}

// do sends a request as a logged-in host
func (ts *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	ts.t.Helper()
	return ts.send(method, path, body, ts.cookie)
}

// anon sends a request without a session
func (ts *testServer) anon(method, path string, body interface{}) *httptest.ResponseRecorder {
	ts.t.Helper()
	return ts.send(method, path, body, nil)
}

func (ts *testServer) send(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			ts.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var apiErr handlers.APIError
	decode(t, rec, &apiErr)
	if apiErr.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, apiErr.Code, apiErr.Message)
	}
}
