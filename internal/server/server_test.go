package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"phantomsync/internal/db"
	"phantomsync/internal/model"
	"phantomsync/internal/repository"
	"phantomsync/internal/uploader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	pushed []string
}

func (f *fakeDispatcher) Dispatch(_ context.Context, path string) bool {
	f.pushed = append(f.pushed, path)
	return strings.HasSuffix(path, ".js")
}

func (f *fakeDispatcher) Status() model.StatusSnapshot {
	return model.StatusSnapshot{ConfigVersion: 3, Accounts: 2, Uploaded: 5}
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	s := New(&fakeDispatcher{}, "")

	rec := do(t, s, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.StatusSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, uint64(3), snap.ConfigVersion)
	assert.Equal(t, 5, snap.Uploaded)
}

func TestPush(t *testing.T) {
	d := &fakeDispatcher{}
	s := New(d, "")

	rec := do(t, s, http.MethodPost, "/push", `{"path":"/work/test.js"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/work/test.js","found":true}`, rec.Body.String())
	assert.Equal(t, []string{"/work/test.js"}, d.pushed)

	rec = do(t, s, http.MethodPost, "/push", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	s := New(&fakeDispatcher{}, "")

	rec := do(t, s, http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, db.Init(filepath.Join(t.TempDir(), "h.db")))
	t.Cleanup(func() { db.DB = nil })

	require.NoError(t, repository.NewHistoryRepository().Record("evt", uploader.Outcome{
		Kind: uploader.KindScript, Account: "library", ScriptName: "Test.js", ScriptPath: "./test.js",
	}))

	rec = do(t, s, http.MethodGet, "/history?n=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var histories []model.History
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &histories))
	require.Len(t, histories, 1)
	assert.Equal(t, "library: ./test.js -> Test.js", histories[0].Message)

	rec = do(t, s, http.MethodGet, "/history?n=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
