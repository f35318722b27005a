package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/session"
	"github.com/structlab/structlab/pkg/snapshot"
	"github.com/structlab/structlab/pkg/structure"
)

func forestKind(r *http.Request) (structure.Kind, error) {
	kind := structure.Kind(chi.URLParam(r, "kind"))
	switch kind {
	case structure.KindGeneral, structure.KindBinary:
		return kind, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidKind, "no forest of kind %q", kind)
	}
}

func (s *Server) handleForestSnapshot(w http.ResponseWriter, r *http.Request) {
	kind, err := forestKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.session.Snapshot(session.Target(kind))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleForestInsert(w http.ResponseWriter, r *http.Request) {
	kind, err := forestKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req struct {
		Value  string `json:"value"`
		Parent string `json:"parent"`
		Side   string `json:"side"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Value == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidValue, "value must not be empty"))
		return
	}
	node, err := s.session.Insert(r.Context(), kind, req.Value, req.Parent, structure.ParseSide(req.Side))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, node)
}

func (s *Server) handleForestDetach(w http.ResponseWriter, r *http.Request) {
	kind, err := forestKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, frag, err := s.session.Detach(r.Context(), kind, req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detachResponse{Token: token, Fragment: frag})
}

// detachResponse reports the claim token and what left the structure.
type detachResponse struct {
	Token    string            `json:"token"`
	Fragment snapshot.Snapshot `json:"fragment"`
}

func (s *Server) handleForestWeight(w http.ResponseWriter, r *http.Request) {
	kind, err := forestKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req struct {
		Parent string `json:"parent"`
		Child  string `json:"child"`
		Weight int    `json:"weight"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.session.SetEdgeWeight(r.Context(), kind, req.Parent, req.Child, req.Weight); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleForestReset(w http.ResponseWriter, r *http.Request) {
	kind, err := forestKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.session.Reset(r.Context(), session.Target(kind)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReattach(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var req struct {
		Parent string `json:"parent"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.session.Reattach(r.Context(), token, req.Parent); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBSTSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.BST().Snapshot())
}

func (s *Server) handleBSTInsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key int `json:"key"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	changed := s.session.BST().Insert(req.Key)
	writeJSON(w, http.StatusOK, map[string]bool{"inserted": changed})
}

func (s *Server) handleBSTDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key int `json:"key"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.session.BST().Delete(req.Key) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "key %d not found", req.Key))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBSTDetach(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key int `json:"key"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, frag, err := s.session.DetachBSTSubtree(r.Context(), req.Key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detachResponse{Token: token, Fragment: frag})
}

func (s *Server) handleBSTReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context(), session.TargetBST); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryKey(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("key")
	key, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidValue, "key %q is not an integer", raw)
	}
	return key, nil
}

func (s *Server) handleBSTSearch(w http.ResponseWriter, r *http.Request) {
	key, err := queryKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"found": s.session.BST().Search(key)})
}

func (s *Server) handleBSTMax(w http.ResponseWriter, r *http.Request) {
	max, ok := s.session.BST().FindMax()
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "tree is empty"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"max": max})
}

func (s *Server) handleBSTHeight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"height": s.session.BST().Height()})
}
