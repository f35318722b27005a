package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/structlab/structlab/pkg/observability"
)

func TestInstallWiresHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	reg := prometheus.NewRegistry()
	c := Install(reg)
	ctx := context.Background()

	observability.Sandbox().OnMutation(ctx, "general", "insert")
	observability.Sandbox().OnMutation(ctx, "general", "insert")
	observability.Sandbox().OnMutation(ctx, "bst", "detach")
	observability.Sandbox().OnRouteQuery(ctx, "a", "b", 3)
	observability.Sandbox().OnLayout(ctx, 10, 5*time.Millisecond)

	if got := testutil.ToFloat64(c.Mutations.WithLabelValues("general", "insert")); got != 2 {
		t.Errorf("mutations{general,insert} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Mutations.WithLabelValues("bst", "detach")); got != 1 {
		t.Errorf("mutations{bst,detach} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.RouteQueries); got != 1 {
		t.Errorf("route queries = %v, want 1", got)
	}
}

func TestFragmentLifecycleGauge(t *testing.T) {
	t.Cleanup(observability.Reset)

	reg := prometheus.NewRegistry()
	c := Install(reg)
	ctx := context.Background()

	observability.Registry().OnIssue(ctx, "general")
	observability.Registry().OnIssue(ctx, "bst")
	observability.Registry().OnWithdraw(ctx, "general")

	if got := testutil.ToFloat64(c.FragmentsLive); got != 1 {
		t.Errorf("fragments live = %v, want 1", got)
	}

	observability.Registry().OnExpire(ctx, "bst")
	if got := testutil.ToFloat64(c.FragmentsLive); got != 0 {
		t.Errorf("fragments live after expiry = %v, want 0", got)
	}
	if got := testutil.ToFloat64(c.FragmentsExpire); got != 1 {
		t.Errorf("fragments expired = %v, want 1", got)
	}
}
