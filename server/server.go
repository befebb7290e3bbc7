// Package server exposes decoded scores over HTTP for playback front ends.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/scoreline/midi"
	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/score"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

const maxDocumentBytes = 32 << 20

type Server struct {
	store *Store
	opts  score.Options
	log   *slog.Logger
}

// New serves scores from store. opts are the defaults each upload starts
// from; query parameters override them.
func New(store *Store, opts score.Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, opts: opts, log: log}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/scores", s.HandleCreate).Methods("POST")
	router.HandleFunc("/scores/{id}", s.HandleGet).Methods("GET")
	router.HandleFunc("/scores/{id}", s.HandleDelete).Methods("DELETE")
	router.HandleFunc("/scores/{id}/midi", s.HandleMidi).Methods("GET")
	router.HandleFunc("/scores/{id}/measures/{measureId}", s.HandleMeasure).Methods("GET")
	router.HandleFunc("/scores/{id}/measures/{measureId}/notes", s.HandleMeasureNotes).Methods("GET")
	router.HandleFunc("/scores/{id}/notes/{noteId}", s.HandleNote).Methods("GET")
	return router
}

// Handler is the router wrapped with CORS so browser clients on other
// origins can call it.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}).Handler(s.Router())
}

func (s *Server) HandleCreate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "could not read document: "+err.Error())
		return
	}

	sc, err := score.Parse(string(body), opts)
	if err != nil {
		s.log.Warn("rejected upload", "err", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := s.store.Add(sc)
	s.log.Info("stored score", "id", id, "measures", len(sc.Measures), "notes", len(sc.Notes))
	writeJSON(w, http.StatusCreated, model.ScoreCreatedResponse{ID: id, Summary: sc.Summary()})
}

func (s *Server) HandleGet(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "score not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleMeasure(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	m, ok := sc.MeasureByID(mux.Vars(r)["measureId"])
	if !ok {
		writeError(w, http.StatusNotFound, "measure not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) HandleMeasureNotes(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	measureID := mux.Vars(r)["measureId"]
	if _, ok := sc.MeasureByID(measureID); !ok {
		writeError(w, http.StatusNotFound, "measure not found")
		return
	}
	writeJSON(w, http.StatusOK, sc.NotesByMeasureID(measureID))
}

func (s *Server) HandleNote(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	n, ok := sc.NoteByID(mux.Vars(r)["noteId"])
	if !ok {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) HandleMidi(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	q := r.URL.Query()
	if err := midi.WriteExcerpt(&buf, sc, q.Get("from"), q.Get("to")); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, midi.ErrUnknownMeasure) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*score.Score, bool) {
	sc, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "score not found")
	}
	return sc, ok
}

func (s *Server) options(r *http.Request) (score.Options, error) {
	opts := s.opts
	q := r.URL.Query()

	if v := q.Get("speed"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, errBadParam("speed", v)
		}
		opts.Speed = f
	}
	if v := q.Get("bpm"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, errBadParam("bpm", v)
		}
		opts.BPM = f
	}
	if v := q.Get("bpmUnit"); v != "" {
		opts.BPMUnit = model.NoteType(v)
	}
	if v := q.Get("pitchedOnly"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errBadParam("pitchedOnly", v)
		}
		opts.PitchedPartsOnly = b
	}
	return opts, nil
}

type paramError struct {
	name, value string
}

func (e paramError) Error() string {
	return "invalid " + e.name + ": " + strconv.Quote(e.value)
}

func errBadParam(name, value string) error {
	return paramError{name: name, value: value}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
