package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkossman/noted-cli/internal/adapters/session"
)

func executeCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// apiFixture is an in-memory stand-in for the notes service.
type apiFixture struct {
	mu        sync.Mutex
	records   []map[string]string
	shortcuts []map[string]string
	nextID    int
	deletes   int
	force401  bool
}

func newAPIServer(t *testing.T) (*httptest.Server, *apiFixture) {
	t.Helper()

	f := &apiFixture{nextID: 1}
	server := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(server.Close)
	return server, f
}

func (f *apiFixture) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if f.force401 {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token revoked"})
		return
	}

	switch {
	case r.URL.Path == "/auth/login":
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-test"})
	case r.URL.Path == "/records" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"records": f.records})
	case r.URL.Path == "/shortcuts" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"shortcuts": f.shortcuts})
	case r.URL.Path == "/records" && r.Method == http.MethodPost:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		entry := map[string]string{
			"id":    "r" + time.Now().Format("150405") + "-" + string(rune('a'+f.nextID)),
			"text":  body["text"],
			"tsUtc": time.Now().UTC().Format(time.RFC3339),
		}
		f.nextID++
		f.records = append(f.records, entry)
		_ = json.NewEncoder(w).Encode(entry)
	case strings.HasPrefix(r.URL.Path, "/records/") && r.Method == http.MethodDelete:
		f.deletes++
		id := strings.TrimPrefix(r.URL.Path, "/records/")
		for i, entry := range f.records {
			if entry["id"] == id {
				f.records = append(f.records[:i], f.records[i+1:]...)
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{})
	default:
		http.NotFound(w, r)
	}
}

func setupHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestVersionCommand(t *testing.T) {
	setupHome(t)

	stdout, _, err := executeCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestConfigSetURLRejectsBadScheme(t *testing.T) {
	setupHome(t)

	_, _, err := executeCLI(t, "", "config", "set-url", "ftp://host")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http or https")
}

func TestConfigSetURLThenShow(t *testing.T) {
	setupHome(t)

	stdout, _, err := executeCLI(t, "", "config", "set-url", "https://api.example.com/")
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://api.example.com")

	stdout, _, err = executeCLI(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://api.example.com")
}

func TestStatusLoggedOut(t *testing.T) {
	setupHome(t)

	stdout, _, err := executeCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logged out")
}

func TestLoginStoresToken(t *testing.T) {
	home := setupHome(t)
	server, _ := newAPIServer(t)

	_, _, err := executeCLI(t, "", "config", "set-url", server.URL)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, "", "login", "--username", "alice", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in.")

	store := session.NewStoreAt(filepath.Join(home, ".noted", "session.toml"))
	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-test", token)
}

func TestRecordAddAndList(t *testing.T) {
	setupHome(t)
	server, _ := newAPIServer(t)

	_, _, err := executeCLI(t, "", "config", "set-url", server.URL)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, "", "record", "add", "hello", "world")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created")

	stdout, _, err = executeCLI(t, "", "record", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hello world")
}

func TestRecordAddRejectsEmptyText(t *testing.T) {
	setupHome(t)
	server, fixture := newAPIServer(t)

	_, _, err := executeCLI(t, "", "config", "set-url", server.URL)
	require.NoError(t, err)

	_, _, err = executeCLI(t, "", "record", "add", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text must not be empty")
	assert.Empty(t, fixture.records)
}

func TestRecordRmDeclinedConfirmationMakesNoCall(t *testing.T) {
	setupHome(t)
	server, fixture := newAPIServer(t)

	_, _, err := executeCLI(t, "", "config", "set-url", server.URL)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, "n\n", "record", "rm", "r1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Aborted.")
	assert.Zero(t, fixture.deletes)
}

func TestRecordRmWithYesFlagDeletes(t *testing.T) {
	setupHome(t)
	server, fixture := newAPIServer(t)

	_, _, err := executeCLI(t, "", "config", "set-url", server.URL)
	require.NoError(t, err)

	_, _, err = executeCLI(t, "", "record", "rm", "r1", "--yes")
	require.NoError(t, err)
	assert.Equal(t, 1, fixture.deletes)
}

func TestUnauthorizedResponseClearsStoredToken(t *testing.T) {
	home := setupHome(t)
	server, fixture := newAPIServer(t)

	_, _, err := executeCLI(t, "", "config", "set-url", server.URL)
	require.NoError(t, err)
	_, _, err = executeCLI(t, "", "login", "--username", "alice", "--password", "secret")
	require.NoError(t, err)

	fixture.mu.Lock()
	fixture.force401 = true
	fixture.mu.Unlock()

	_, _, err = executeCLI(t, "", "record", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token revoked")

	store := session.NewStoreAt(filepath.Join(home, ".noted", "session.toml"))
	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCommandsWithoutConfiguredURLFail(t *testing.T) {
	setupHome(t)

	_, _, err := executeCLI(t, "", "record", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
