package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/structlab/structlab/pkg/snapshot"
)

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := map[string]bool{"serve": false, "route": false, "stations": false, "export": false}
	for _, cmd := range root.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRouteCommand(t *testing.T) {
	root := newTestCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"route", "North Ave", "Quezon Ave"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "North Ave") || !strings.Contains(got, "Quezon Ave") {
		t.Fatalf("output missing stations:\n%s", got)
	}
	if !strings.Contains(got, "2 min") {
		t.Fatalf("output missing travel time:\n%s", got)
	}
}

func TestRouteCommandUnknownStation(t *testing.T) {
	root := newTestCLI().RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"route", "North Ave", "Narnia"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for an unknown station")
	}
}

func TestStationsCommand(t *testing.T) {
	root := newTestCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"stations"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "Baclaran") {
		t.Fatalf("station list incomplete:\n%s", out.String())
	}
}

func TestExportCommandWritesDOT(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "snap.json")
	s := snapshot.Snapshot{
		Nodes: []snapshot.Node{{ID: "a", Label: "a", Root: true}},
	}
	if err := snapshot.WriteFile(s, snapPath); err != nil {
		t.Fatal(err)
	}

	root := newTestCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"export", snapPath})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "digraph G {") {
		t.Fatalf("not DOT output:\n%s", out.String())
	}
}
