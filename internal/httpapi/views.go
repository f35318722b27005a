package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/export"
	"github.com/structlab/structlab/pkg/session"
)

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	src, dst := q.Get("src"), q.Get("dst")
	if src == "" || dst == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "src and dst are required"))
		return
	}
	path, err := s.session.Route(r.Context(), src, dst)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"stations": s.session.Network().Stations()})
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Network().Snapshot())
}

func parseTarget(raw string) (session.Target, error) {
	switch t := session.Target(raw); t {
	case session.TargetGeneral, session.TargetBinary, session.TargetBST,
		session.TargetGraph, session.TargetNetwork:
		return t, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidKind, "no structure %q", raw)
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := parseTarget(req.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pos, err := s.session.Layout(r.Context(), target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	target, err := parseTarget(chi.URLParam(r, "target"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.session.Snapshot(target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Trees draw directed parent-child arrows; the two graphs do not.
	opts := export.Options{
		Directed:    target != session.TargetGraph && target != session.TargetNetwork,
		ShowWeights: true,
	}
	dot := export.ToDOT(snap, opts)

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := export.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", format))
	}
}

func (s *Server) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	names, err := s.archive.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"archives": names})
}

func (s *Server) handleArchiveSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Target string `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := parseTarget(req.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.session.Snapshot(target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.archive.Save(r.Context(), req.Name, req.Target, snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleArchiveLoad(w http.ResponseWriter, r *http.Request) {
	entry, err := s.archive.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleArchiveDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.archive.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
