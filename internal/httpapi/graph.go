package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/observability"
	"github.com/structlab/structlab/pkg/session"
)

func (s *Server) handleGraphSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Graph().Snapshot())
}

func (s *Server) handleGraphAddVertex(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Label == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidValue, "label must not be empty"))
		return
	}
	v := s.session.Graph().AddVertex(req.Label)
	observability.Sandbox().OnMutation(r.Context(), string(session.TargetGraph), "add_vertex")
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGraphDeleteVertex(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Graph().DeleteVertex(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Sandbox().OnMutation(r.Context(), string(session.TargetGraph), "delete_vertex")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraphAddEdge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.session.Graph().AddEdge(req.From, req.To); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Sandbox().OnMutation(r.Context(), string(session.TargetGraph), "add_edge")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraphWeight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Weight int    `json:"weight"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.session.Graph().SetWeight(req.From, req.To, req.Weight); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Sandbox().OnMutation(r.Context(), string(session.TargetGraph), "set_weight")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraphReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context(), session.TargetGraph); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
