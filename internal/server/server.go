package server

import (
	"encoding/json"
	"net/http"
	"time"

	"passtnicht/internal/room"
	"passtnicht/internal/storage"
)

// Server is the HTTP server.
type Server struct {
	mux     *http.ServeMux
	manager *room.Manager
	store   *storage.Store
}

// New creates a server with all routes.
func New(manager *room.Manager, store *storage.Store) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		manager: manager,
		store:   store,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	s.mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	s.mux.HandleFunc("GET /api/rooms/{code}", s.handleGetRoom)
	s.mux.HandleFunc("GET /api/rooms/{code}/results", s.handleRoomResults)
	s.mux.HandleFunc("GET /api/rooms/{code}/ws", s.handleWebSocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type createRoomResponse struct {
	Code string `json:"code"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := s.manager.Create()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, createRoomResponse{Code: rm.Code})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.List())
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	rm, ok := s.manager.Get(code)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}
	writeJSON(w, http.StatusOK, rm.Info())
}

type resultView struct {
	WinnerID   string          `json:"winnerId"`
	WinnerName string          `json:"winnerName"`
	Rounds     int             `json:"rounds"`
	Scores     json.RawMessage `json:"scores"`
	FinishedAt string          `json:"finishedAt"`
}

func (s *Server) handleRoomResults(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	rows, err := s.store.ListResults(code)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	views := make([]resultView, 0, len(rows))
	for _, row := range rows {
		views = append(views, resultView{
			WinnerID:   row.WinnerID,
			WinnerName: row.WinnerName,
			Rounds:     row.Rounds,
			Scores:     json.RawMessage(row.ScoresJSON),
			FinishedAt: row.FinishedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
