package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/vanderheijden86/trailhead/pkg/sanitize"
)

// maxBodyBytes bounds request bodies; demo payloads are small.
const maxBodyBytes = 1 << 20

// Server is the demo backend HTTP server.
type Server struct {
	addr    string
	http    *http.Server
	store   *Store
	metrics *Metrics
}

// NewServer creates a Server listening on addr, backed by store.
func NewServer(addr string, store *Store) *Server {
	s := &Server{
		addr:    addr,
		store:   store,
		metrics: NewMetrics(),
	}

	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// routes builds the mux and wraps it in the middleware chain: request ID,
// then logging, then panic recovery, then metrics.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /users/{id}", s.handlePutUser)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("POST /data/{key}", s.handlePutData)
	mux.HandleFunc("GET /data/{key}", s.handleGetData)

	return chain(mux,
		requestIDMiddleware,
		loggerMiddleware,
		recoveryMiddleware,
		metricsMiddleware(s.metrics),
	)
}

// Start begins listening for HTTP requests (non-blocking).
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "err", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "trailhead-backend",
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handlePutUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var u User
	if err := decodeBody(w, r, &u); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	name, err := sanitize.Text(u.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "name: "+err.Error())
		return
	}
	u.Name = name

	// Nested progress is stored as an opaque JSON string.
	progressJSON := "{}"
	if u.Progress != nil {
		data, err := json.Marshal(u.Progress)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "progress: "+err.Error())
			return
		}
		progressJSON = string(data)
	}

	if err := s.store.PutUser(id, u, progressJSON); err != nil {
		logFor(r.Context()).Error("store user", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to store user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "user stored",
		"user_id": id,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	u, progressJSON, err := s.store.GetUser(id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	if err != nil {
		logFor(r.Context()).Error("fetch user", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to fetch user")
		return
	}

	if progressJSON != "" {
		if err := json.Unmarshal([]byte(progressJSON), &u.Progress); err != nil {
			logFor(r.Context()).Error("decode stored progress", "id", id, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handlePutData(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var body struct {
		Value string `json:"value"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	value, err := sanitize.Text(body.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "value: "+err.Error())
		return
	}

	if err := s.store.PutData(key, value); err != nil {
		logFor(r.Context()).Error("store data", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to store data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "data stored",
		"key":     key,
	})
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, err := s.store.GetData(key)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "data not found")
		return
	}
	if err != nil {
		logFor(r.Context()).Error("fetch data", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to fetch data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"key":   key,
		"value": value,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	// Reject trailing garbage
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
