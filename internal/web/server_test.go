package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"texnumber/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := httptest.NewServer(NewServer(config.Defaults(), log).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRenumber(t *testing.T) {
	srv := newTestServer(t)

	body := "\\label{eqnFoo}\n\\ref{eqnFoo} \\eqref{eqnBar}\n"
	resp, err := http.Post(srv.URL+"/api/renumber?pattern=eqn&replacement=Eqn", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var got renumberResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if want := "\\label{Eqn1}\n\\ref{Eqn1} \\eqref{eqnBar}\n"; got.Output != want {
		t.Errorf("Expected %q, got %q", want, got.Output)
	}
	if got.Result.LabelCount() != 1 || len(got.Result.Warnings.Undefined) != 1 {
		t.Errorf("Unexpected result %+v", got.Result)
	}
	if !strings.Contains(got.Report, "\\eqref{eqnBar}, 2:14") {
		t.Errorf("Expected warning block, got %q", got.Report)
	}
}

func TestRenumber_CommentsOptIn(t *testing.T) {
	srv := newTestServer(t)

	body := "\\label{eqnA} % \\ref{eqnA}\n"
	resp, err := http.Post(srv.URL+"/api/renumber?pattern=eqn&replacement=E&ignore_comments=false", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var got renumberResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if want := "\\label{E1} % \\ref{E1}\n"; got.Output != want {
		t.Errorf("Expected %q, got %q", want, got.Output)
	}
}

func TestRenumber_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	testCases := []struct {
		name   string
		method string
		query  string
		status int
	}{
		{"wrong method", http.MethodGet, "?pattern=eqn&replacement=Eqn", http.StatusMethodNotAllowed},
		{"missing pattern", http.MethodPost, "?replacement=Eqn", http.StatusBadRequest},
		{"bad boolean", http.MethodPost, "?pattern=eqn&replacement=Eqn&ignore_comments=maybe", http.StatusBadRequest},
		{"bad encoding", http.MethodPost, "?pattern=eqn&replacement=Eqn&encoding=ebcdic", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(tc.method, srv.URL+"/api/renumber"+tc.query, strings.NewReader("x"))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Errorf("Expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

func TestHelpAndStatic(t *testing.T) {
	srv := newTestServer(t)

	for path, want := range map[string]string{
		"/api/help":    "# texnumber v",
		"/api/version": `"version"`,
		"/":            "<title>texnumber</title>",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected %s to contain %q, got %q", path, want, data)
		}
	}
}

func TestRenumber_DocumentTooLarge(t *testing.T) {
	srv := newTestServer(t)

	body := strings.Repeat("x", maxDocument) + "\n\\label{eqnTail}\n\\ref{eqnTail}\n"
	resp, err := http.Post(srv.URL+"/api/renumber?pattern=eqn&replacement=Eqn", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", resp.StatusCode)
	}
}

func TestRenumber_KeywordsExtendDefaults(t *testing.T) {
	srv := newTestServer(t)

	body := "\\label{eqnA}\n\\cref{eqnA} \\ref{eqnA} \\ref{eqnB}\n"
	resp, err := http.Post(srv.URL+"/api/renumber?pattern=eqn&replacement=E&keyword=cref&keyword=ref", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var got renumberResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if want := "\\label{E1}\n\\cref{E1} \\ref{E1} \\ref{eqnB}\n"; got.Output != want {
		t.Errorf("Expected %q, got %q", want, got.Output)
	}
	if n := len(got.Result.Warnings.Undefined); n != 1 {
		t.Errorf("Expected one undefined reference, got %d: %+v", n, got.Result.Warnings.Undefined)
	}
}
