package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"texnumber/internal/config"
	"texnumber/internal/model"
	"texnumber/internal/renumber"
	"texnumber/internal/report"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// maxDocument bounds request bodies.
const maxDocument = 16 << 20

// Server exposes the renumbering engine over HTTP.
type Server struct {
	defaults config.Config
	log      logrus.FieldLogger
}

// NewServer returns a server whose requests fall back to defaults for
// anything they do not set.
func NewServer(defaults config.Config, log logrus.FieldLogger) *Server {
	return &Server{defaults: defaults, log: log}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	mux.HandleFunc("/api/renumber", s.handleRenumber)
	mux.HandleFunc("/api/help", handleHelp)
	mux.HandleFunc("/api/version", handleVersion)
	return mux
}

// ListenAndServe starts the web server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("starting web server")
	return http.ListenAndServe(addr, s.Handler())
}

type renumberResponse struct {
	Output string        `json:"output"`
	Result *model.Result `json:"result"`
	Report string        `json:"report"` // stream-mode warning block
}

func (s *Server) handleRenumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "POST a LaTeX document", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	cfg := config.Merge(s.defaults, config.Config{
		Pattern:     q.Get("pattern"),
		Replacement: q.Get("replacement"),
		Encoding:    q.Get("encoding"),
	})
	cfg.AddKeywords(q["keyword"]...)
	if v := q.Get("ignore_comments"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "ignore_comments must be a boolean", http.StatusBadRequest)
			return
		}
		cfg.IgnoreComments = &b
	}
	cfg.Input, cfg.Output = "", ""
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts, err := cfg.Options()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts.Logger = s.log

	var out bytes.Buffer
	res, err := renumber.Run(r.Context(), http.MaxBytesReader(w, r.Body, maxDocument), &out, opts)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "document larger than "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes", http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("renumber request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var warnings strings.Builder
	report.WriteWarnings(&warnings, res.Warnings)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(renumberResponse{
		Output: out.String(),
		Result: res,
		Report: warnings.String(),
	})
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": model.Version})
}
