package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/structlab/structlab/pkg/session"
	"github.com/structlab/structlab/pkg/snapshot"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(session.New(session.Options{}), nil, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("status %d, body %v", resp.StatusCode, body)
	}
}

func TestForestInsertAndSnapshot(t *testing.T) {
	ts := newTestServer(t)

	var node struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "root"}, &node)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("insert status %d", resp.StatusCode)
	}
	if node.ID == "" {
		t.Fatal("no id in insert response")
	}
	doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "kid", "parent": "root"}, nil)

	var snap snapshot.Snapshot
	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/forest/general/", nil, &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("snapshot status %d", resp.StatusCode)
	}
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Fatalf("snapshot shape %d/%d, want 2/1", len(snap.Nodes), len(snap.Edges))
	}
}

func TestForestInsertValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty value status %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/forest/mystery/insert",
		map[string]string{"value": "x"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad kind status %d, want 400", resp.StatusCode)
	}
}

func TestDetachReattachOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	var node struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "root"}, nil)
	doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "mid", "parent": "root"}, &node)

	var detached struct {
		Token    string            `json:"token"`
		Fragment snapshot.Snapshot `json:"fragment"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/detach",
		map[string]string{"id": node.ID}, &detached)
	if resp.StatusCode != http.StatusOK || detached.Token == "" {
		t.Fatalf("detach status %d, token %q", resp.StatusCode, detached.Token)
	}
	if len(detached.Fragment.Nodes) != 1 {
		t.Fatalf("fragment = %+v, want the single detached node", detached.Fragment)
	}

	// Unresolvable parent: 404 and the token survives.
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/reattach/"+detached.Token,
		map[string]string{"parent": "ghost"}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("bad parent status %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/reattach/"+detached.Token,
		map[string]string{"parent": "root"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reattach status %d", resp.StatusCode)
	}

	// Token is single-use.
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/reattach/"+detached.Token,
		map[string]string{}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("token reuse status %d, want 404", resp.StatusCode)
	}
}

func TestBSTEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, key := range []int{50, 30, 70} {
		resp := doJSON(t, http.MethodPost, ts.URL+"/v1/bst/insert",
			map[string]int{"key": key}, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("insert %d status %d", key, resp.StatusCode)
		}
	}

	var found map[string]bool
	doJSON(t, http.MethodGet, ts.URL+"/v1/bst/search?key=30", nil, &found)
	if !found["found"] {
		t.Fatal("search missed an inserted key")
	}

	var max map[string]int
	doJSON(t, http.MethodGet, ts.URL+"/v1/bst/max", nil, &max)
	if max["max"] != 70 {
		t.Fatalf("max = %d, want 70", max["max"])
	}

	var height map[string]int
	doJSON(t, http.MethodGet, ts.URL+"/v1/bst/height", nil, &height)
	if height["height"] != 2 {
		t.Fatalf("height = %d, want 2", height["height"])
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/bst/delete",
		map[string]int{"key": 99}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete absent key status %d, want 404", resp.StatusCode)
	}

	var detached struct {
		Token string `json:"token"`
	}
	doJSON(t, http.MethodPost, ts.URL+"/v1/bst/detach", map[string]int{"key": 30}, &detached)
	if detached.Token == "" {
		t.Fatal("no token from subtree detach")
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/reattach/"+detached.Token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bst reattach status %d", resp.StatusCode)
	}
}

func TestGraphEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var a, b struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodPost, ts.URL+"/v1/graph/vertex", map[string]string{"label": "a"}, &a)
	doJSON(t, http.MethodPost, ts.URL+"/v1/graph/vertex", map[string]string{"label": "b"}, &b)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/graph/edge",
		map[string]string{"from": a.ID, "to": b.ID}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edge status %d", resp.StatusCode)
	}
	doJSON(t, http.MethodPost, ts.URL+"/v1/graph/weight",
		map[string]any{"from": a.ID, "to": b.ID, "weight": 4}, nil)

	var snap snapshot.Snapshot
	doJSON(t, http.MethodGet, ts.URL+"/v1/graph/", nil, &snap)
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 || snap.Edges[0].Weight != 4 {
		t.Fatalf("snapshot = %+v", snap)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/v1/graph/vertex/"+a.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete vertex status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, ts.URL+"/v1/graph/vertex/"+a.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status %d, want 404", resp.StatusCode)
	}
}

func TestRouteEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var path struct {
		Stations []string `json:"stations"`
		Minutes  int      `json:"minutes"`
		Meters   int      `json:"meters"`
	}
	url := fmt.Sprintf("%s/v1/route?src=%s&dst=%s", ts.URL, "North+Ave", "Quezon+Ave")
	resp := doJSON(t, http.MethodGet, url, nil, &path)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("route status %d", resp.StatusCode)
	}
	if len(path.Stations) != 2 || path.Minutes != 2 {
		t.Fatalf("path = %+v", path)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/route?src=North+Ave&dst=Narnia", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown station status %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/route?src=North+Ave", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing dst status %d, want 400", resp.StatusCode)
	}
}

func TestStationsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var body map[string][]string
	doJSON(t, http.MethodGet, ts.URL+"/v1/stations", nil, &body)
	if len(body["stations"]) == 0 {
		t.Fatal("no stations listed")
	}
}

func TestNetworkSnapshotEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var snap snapshot.Snapshot
	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/network", nil, &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("network status %d", resp.StatusCode)
	}
	if len(snap.Nodes) == 0 || len(snap.Edges) == 0 {
		t.Fatalf("network snapshot empty: %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	}
	for _, e := range snap.Edges {
		if e.Weight <= 0 {
			t.Fatalf("edge %s-%s has weight %d", e.From, e.To, e.Weight)
		}
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "a"}, nil)
	doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "b", "parent": "a"}, nil)

	var pos snapshot.Positioned
	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/layout",
		map[string]string{"target": "general"}, &pos)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("layout status %d", resp.StatusCode)
	}
	if len(pos.Positions) != 2 {
		t.Fatalf("%d positions, want 2", len(pos.Positions))
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/layout",
		map[string]string{"target": "mystery"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad target status %d, want 400", resp.StatusCode)
	}
}

func TestExportDOT(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "a"}, nil)

	resp, err := http.Get(ts.URL + "/v1/export/general?format=dot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "digraph G {") {
		t.Fatalf("not DOT output:\n%s", buf.String())
	}
}

func TestArchiveEndpoints(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, http.MethodPost, ts.URL+"/v1/forest/general/insert",
		map[string]string{"value": "a"}, nil)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/archive/",
		map[string]string{"name": "demo", "target": "general"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save status %d", resp.StatusCode)
	}

	var list map[string][]string
	doJSON(t, http.MethodGet, ts.URL+"/v1/archive/", nil, &list)
	if len(list["archives"]) != 1 || list["archives"][0] != "demo" {
		t.Fatalf("list = %v", list)
	}

	var entry struct {
		Name     string            `json:"name"`
		Snapshot snapshot.Snapshot `json:"snapshot"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/archive/demo", nil, &entry)
	if resp.StatusCode != http.StatusOK || len(entry.Snapshot.Nodes) != 1 {
		t.Fatalf("load status %d, entry %+v", resp.StatusCode, entry)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/v1/archive/demo", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/archive/demo", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("load after delete status %d, want 404", resp.StatusCode)
	}
}
