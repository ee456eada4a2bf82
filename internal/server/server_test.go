package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/export"
	"codegraph/internal/scan"
)

type fakeEngine struct {
	structure export.Structure
	err       error
	started   chan ScanTarget
}

func (f *fakeEngine) Analyze(ctx context.Context, target ScanTarget, onEvent func(scan.Event)) (export.Structure, error) {
	if f.started != nil {
		f.started <- target
	}
	if onEvent != nil {
		onEvent(scan.Event{Kind: scan.EventIngest, Path: "app.py"})
		onEvent(scan.Event{Kind: scan.EventDone})
	}
	return f.structure, f.err
}

func emptyStructure() export.Structure {
	return export.Structure{
		Files:           map[string]export.FileRecord{"app.py": {Name: "app.py"}},
		DependencyGraph: map[string][]string{},
	}
}

func TestScanEndpointValidation(t *testing.T) {
	srv := New(&fakeEngine{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/scan", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "a target is required")

	resp, err = http.Post(ts.URL+"/api/scan", "application/json",
		strings.NewReader(`{"path": "/tmp/x", "github_url": "https://github.com/o/r"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "path and github_url are mutually exclusive")

	resp, err = http.Get(ts.URL + "/api/scan")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestScanLifecycle(t *testing.T) {
	eng := &fakeEngine{structure: emptyStructure()}
	srv := New(eng)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/export")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no result before the first scan")

	resp, err = http.Post(ts.URL+"/api/scan", "application/json", strings.NewReader(`{"path": "/tmp/proj"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		r, err := http.Get(ts.URL + "/api/export")
		if err != nil {
			return false
		}
		defer r.Body.Close()
		return r.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	resp, err = http.Get(ts.URL + "/api/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	var s export.Structure
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Contains(t, s.Files, "app.py")
}

func TestConcurrentScanRejected(t *testing.T) {
	eng := &fakeEngine{structure: emptyStructure(), started: make(chan ScanTarget)}
	srv := New(eng)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/scan", "application/json", strings.NewReader(`{"path": "/tmp/a"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/api/scan", "application/json", strings.NewReader(`{"path": "/tmp/b"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	<-eng.started
}

func TestScanFailureReportedInStatus(t *testing.T) {
	eng := &fakeEngine{err: errors.New("clone failed")}
	srv := New(eng)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/scan", "application/json", strings.NewReader(`{"path": "/tmp/a"}`))
	require.NoError(t, err)
	resp.Body.Close()

	require.Eventually(t, func() bool {
		r, err := http.Get(ts.URL + "/api/status")
		if err != nil {
			return false
		}
		defer r.Body.Close()
		var st struct {
			Running   bool   `json:"running"`
			LastError string `json:"last_error"`
		}
		if json.NewDecoder(r.Body).Decode(&st) != nil {
			return false
		}
		return !st.Running && st.LastError == "clone failed"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubPublishAndDrop(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(map[string]string{"type": "progress"})
	select {
	case data := <-ch:
		assert.Contains(t, string(data), "progress")
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	// Overflow the buffer; the hub must not block.
	for i := 0; i < 200; i++ {
		h.Publish(map[string]int{"i": i})
	}
	assert.Equal(t, 1, h.Len())

	cancel()
	assert.Equal(t, 0, h.Len())
}
