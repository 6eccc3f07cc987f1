package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mimecast/dnode/internal/event"
	"github.com/mimecast/dnode/internal/io/dlog"
	"github.com/mimecast/dnode/internal/version"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/pending", s.getPending).Methods("GET")
	router.HandleFunc("/recent", s.getRecent).Methods("GET")
	router.HandleFunc("/stats", s.getStats).Methods("GET")
	router.HandleFunc("/version", s.getVersion).Methods("GET")
	router.HandleFunc("/wait", s.postWait).Methods("POST")
	return router
}

type apiError struct {
	Error string `json:"error"`
}

// getPending returns the number of unresolved waits.
func (s *Server) getPending(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, struct {
		Pending int `json:"pending"`
	}{s.waiter.PendingCount()})
}

// getRecent returns the most recent log lines, oldest first.
func (s *Server) getRecent(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, struct {
		Lines []string `json:"lines"`
	}{s.waiter.Recent()})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, s.waiter.Stats())
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}{version.Name, version.Version})
}

// postWait blocks until the event given by the "event" query parameter got
// logged, the "timeout" passed or the client went away.
func (s *Server) postWait(w http.ResponseWriter, r *http.Request) {
	p, err := event.ParsePredicate(r.URL.Query().Get("event"))
	if err != nil {
		serveError(w, err, http.StatusBadRequest)
		return
	}

	timeout := time.Duration(s.cfg.DefaultWaitTimeoutS) * time.Second
	if v := r.URL.Query().Get("timeout"); v != "" {
		if timeout, err = time.ParseDuration(v); err != nil {
			serveError(w, errors.Wrap(err, "invalid timeout"), http.StatusBadRequest)
			return
		}
	}

	select {
	case s.waitLimiter <- struct{}{}:
		defer func() { <-s.waitLimiter }()
	default:
		s.stats.incrementLimitExceeded()
		serveError(w, errors.Errorf("exceeded max allowed concurrent waits of %d",
			cap(s.waitLimiter)), http.StatusTooManyRequests)
		return
	}

	s.stats.incrementWaits()
	defer s.stats.decrementWaits()

	dlog.Common.Debug("API: wait", p, timeout)
	o := s.waiter.SubmitContext(r.Context(), p, timeout)
	dlog.Common.Debug("API: wait resolved", o)
	serveJSON(w, o)
}

func serveJSON(w http.ResponseWriter, value interface{}) {
	resp, err := json.Marshal(value)
	if err != nil {
		dlog.Common.Error("API: internal error while encoding response", err)
		serveError(w, errors.New("internal error"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(resp)
}

func serveError(w http.ResponseWriter, err error, status int) {
	resp, _ := json.Marshal(&apiError{Error: err.Error()})
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	w.Write(resp)
}
