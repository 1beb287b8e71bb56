package ollama

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestDockerConfig_Defaults(t *testing.T) {
	if DefaultContainerName != "triage-ollama" {
		t.Errorf("unexpected default container name: %s", DefaultContainerName)
	}
	if DefaultImage != "ollama/ollama:latest" {
		t.Errorf("unexpected default image: %s", DefaultImage)
	}
	if DefaultPort != "11434" {
		t.Errorf("unexpected default port: %s", DefaultPort)
	}
}

func TestDockerManager_URL(t *testing.T) {
	m, err := NewDockerManager(DockerConfig{HostPort: "12345"})
	if err != nil {
		t.Fatalf("NewDockerManager() error = %v", err)
	}
	defer m.Close()

	if got := m.URL(); got != "http://localhost:12345" {
		t.Errorf("URL() = %s", got)
	}
}

// managerForServer points a manager at a local httptest server so the
// HTTP paths can be exercised without a docker daemon.
func managerForServer(t *testing.T, srv *httptest.Server) *DockerManager {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewDockerManager(DockerConfig{HostPort: port})
	if err != nil {
		t.Fatalf("NewDockerManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestEnsureModel(t *testing.T) {
	var gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pull" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad pull body: %v", err)
		}
		gotName, _ = body["name"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := managerForServer(t, srv)
	if err := m.EnsureModel(context.Background(), "llama3.2:3b"); err != nil {
		t.Fatalf("EnsureModel() error = %v", err)
	}
	if gotName != "llama3.2:3b" {
		t.Errorf("pulled model = %q", gotName)
	}
}

func TestEnsureModel_PullFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := managerForServer(t, srv)
	err := m.EnsureModel(context.Background(), "nope:latest")
	if err == nil || !strings.Contains(err.Error(), "nope:latest") {
		t.Fatalf("error should name the model: %v", err)
	}
}

func TestWaitReady_Succeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/version" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	m := managerForServer(t, srv)
	if err := m.WaitReady(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
}
