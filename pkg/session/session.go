// Package session wires the sandbox's structures together: the two node
// forests, the key-ordered search tree, the ad-hoc graph, the fragment
// registry and the transit network live in one Session value that owning
// surfaces (HTTP, CLI) receive by injection.
//
// The Session carries the cross-structure flows that no single structure
// can own, most importantly the detach and reattach token protocol, which
// needs both a structure and the registry. Single-structure operations are
// reached through the accessors.
package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/layout"
	"github.com/structlab/structlab/pkg/observability"
	"github.com/structlab/structlab/pkg/registry"
	"github.com/structlab/structlab/pkg/route"
	"github.com/structlab/structlab/pkg/sandbox"
	"github.com/structlab/structlab/pkg/snapshot"
	"github.com/structlab/structlab/pkg/structure"
)

// Target names a displayable structure for snapshot and layout requests.
type Target string

const (
	TargetGeneral Target = "general"
	TargetBinary  Target = "binary"
	TargetBST     Target = "bst"
	TargetGraph   Target = "graph"
	TargetNetwork Target = "network"
)

// Options configures a Session. Zero-value fields get working defaults:
// an unexpiring in-memory registry, the fixed Metro Manila network, and
// the package default logger.
type Options struct {
	Registry *registry.Registry
	Network  *route.Graph
	Layout   *layout.Options
	Logger   *log.Logger
}

// Session is the sandbox state for one deployment. All contained
// structures guard themselves, so a Session is safe for concurrent use.
type Session struct {
	log     *log.Logger
	weights *structure.Weights
	general *structure.Forest
	binary  *structure.Forest
	bst     *structure.BST
	graph   *sandbox.Graph
	network *route.Graph
	reg     *registry.Registry
	layout  *layout.Options
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Registry == nil {
		opts.Registry = registry.New(nil, 0)
	}
	if opts.Network == nil {
		opts.Network = route.Manila()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	weights := structure.NewWeights()
	return &Session{
		log:     opts.Logger,
		weights: weights,
		general: structure.NewForest(structure.KindGeneral, weights),
		binary:  structure.NewForest(structure.KindBinary, weights),
		bst:     structure.NewBST(),
		graph:   sandbox.NewGraph(),
		network: opts.Network,
		reg:     opts.Registry,
		layout:  opts.Layout,
	}
}

// Forest returns the node forest for the kind, which must be KindGeneral
// or KindBinary.
func (s *Session) Forest(kind structure.Kind) (*structure.Forest, error) {
	switch kind {
	case structure.KindGeneral:
		return s.general, nil
	case structure.KindBinary:
		return s.binary, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidKind, "no forest of kind %q", kind)
	}
}

// BST returns the key-ordered search tree.
func (s *Session) BST() *structure.BST { return s.bst }

// Graph returns the ad-hoc editable graph.
func (s *Session) Graph() *sandbox.Graph { return s.graph }

// Network returns the fixed transit network used for route queries.
func (s *Session) Network() *route.Graph { return s.network }

// Registry returns the detached-fragment registry.
func (s *Session) Registry() *registry.Registry { return s.reg }

// Insert places a value into the named forest. See Forest.Insert for the
// placement policy.
func (s *Session) Insert(ctx context.Context, kind structure.Kind, value, parentKey string, side structure.Side) (*structure.Node, error) {
	f, err := s.Forest(kind)
	if err != nil {
		return nil, err
	}
	n := f.Insert(value, parentKey, side)
	s.log.Debug("inserted node", "kind", kind, "id", n.ID, "parent", parentKey)
	observability.Sandbox().OnMutation(ctx, string(kind), "insert")
	return n, nil
}

// SetEdgeWeight assigns a weight to the parent-child edge of the named
// forest. Both keys must resolve.
func (s *Session) SetEdgeWeight(ctx context.Context, kind structure.Kind, parentKey, childKey string, weight int) error {
	f, err := s.Forest(kind)
	if err != nil {
		return err
	}
	parent, ok := f.Lookup(parentKey)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", parentKey)
	}
	child, ok := f.Lookup(childKey)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", childKey)
	}
	f.Weights().Set(parent.ID, child.ID, weight)
	observability.Sandbox().OnMutation(ctx, string(kind), "set_weight")
	return nil
}

// Detach removes the node with the given identity from the named forest,
// promotes its children to roots and registers the single-node fragment.
// It returns the claim token plus a snapshot of the registered fragment,
// so callers can show what left the forest.
func (s *Session) Detach(ctx context.Context, kind structure.Kind, id string) (string, snapshot.Snapshot, error) {
	f, err := s.Forest(kind)
	if err != nil {
		return "", snapshot.Snapshot{}, err
	}
	node, ok := f.Detach(id)
	if !ok {
		return "", snapshot.Snapshot{}, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	frag := structure.SubtreeSnapshot(node, f.Weights())
	token, err := s.reg.Issue(ctx, registry.Fragment{Kind: kind, Root: node})
	if err != nil {
		// The node is already out of the forest; losing it here would
		// break conservation, so put it back as a root.
		if attachErr := f.Attach(node, ""); attachErr != nil {
			s.log.Error("failed to restore unregistered fragment", "id", node.ID, "err", attachErr)
		}
		return "", snapshot.Snapshot{}, err
	}
	s.log.Debug("detached node", "kind", kind, "id", id, "token", token)
	observability.Sandbox().OnMutation(ctx, string(kind), "detach")
	return token, frag, nil
}

// DetachBSTSubtree removes the whole subtree rooted at key from the
// search tree, registers its key set and returns the claim token plus a
// snapshot of the detached shape. The fragment reenters by value, not by
// shape.
func (s *Session) DetachBSTSubtree(ctx context.Context, key int) (string, snapshot.Snapshot, error) {
	sub, ok := s.bst.DetachSubtree(key)
	if !ok {
		return "", snapshot.Snapshot{}, errors.New(errors.ErrCodeNotFound, "key %d not found", key)
	}
	frag := structure.BSTSnapshot(sub)
	keys := structure.Keys(sub)
	token, err := s.reg.Issue(ctx, registry.Fragment{Kind: structure.KindBST, Keys: keys})
	if err != nil {
		s.bst.InsertAll(keys...)
		return "", snapshot.Snapshot{}, err
	}
	s.log.Debug("detached subtree", "kind", structure.KindBST, "key", key, "size", len(keys), "token", token)
	observability.Sandbox().OnMutation(ctx, string(structure.KindBST), "detach")
	return token, frag, nil
}

// Reattach claims the fragment behind token and inserts it back.
//
// Node fragments go under the resolved parent, or become a new root of
// their forest when parentKey is empty. An unresolvable parent fails with
// ErrCodeParentNotFound and the token stays claimable, so a mistyped
// parent costs nothing. Key fragments reenter the search tree value by
// value and ignore parentKey.
func (s *Session) Reattach(ctx context.Context, token, parentKey string) error {
	frag, err := s.reg.Peek(ctx, token)
	if err != nil {
		return err
	}

	if frag.IsValue() {
		frag, err = s.reg.Withdraw(ctx, token)
		if err != nil {
			return err
		}
		s.bst.InsertAll(frag.Keys...)
		s.log.Debug("reattached subtree", "kind", structure.KindBST, "size", len(frag.Keys))
		observability.Sandbox().OnMutation(ctx, string(structure.KindBST), "reattach")
		return nil
	}

	f, err := s.Forest(frag.Kind)
	if err != nil {
		return err
	}
	if parentKey != "" {
		if _, ok := f.Lookup(parentKey); !ok {
			// Fail before the withdraw so the token survives for a retry.
			return errors.New(errors.ErrCodeParentNotFound, "parent %q not found", parentKey)
		}
	}
	frag, err = s.reg.Withdraw(ctx, token)
	if err != nil {
		return err
	}
	if err := f.Attach(frag.Root, parentKey); err != nil {
		// The parent can vanish between validation and attach. The token
		// is already spent, so keep the fragment by rooting it.
		if rootErr := f.Attach(frag.Root, ""); rootErr != nil {
			s.log.Error("failed to keep withdrawn fragment", "id", frag.Root.ID, "err", rootErr)
		}
		return err
	}
	s.log.Debug("reattached node", "kind", frag.Kind, "id", frag.Root.ID, "parent", parentKey)
	observability.Sandbox().OnMutation(ctx, string(frag.Kind), "reattach")
	return nil
}

// Reset clears the named structure. The registry is untouched: issued
// tokens stay claimable against the emptied structure.
func (s *Session) Reset(ctx context.Context, target Target) error {
	switch target {
	case TargetGeneral:
		s.general.Reset()
	case TargetBinary:
		s.binary.Reset()
	case TargetBST:
		s.bst.Reset()
	case TargetGraph:
		s.graph.Reset()
	case TargetNetwork:
		return errors.New(errors.ErrCodeUnsupported, "the transit network is read-only")
	default:
		return errors.New(errors.ErrCodeInvalidKind, "no structure %q", target)
	}
	observability.Sandbox().OnMutation(ctx, string(target), "reset")
	return nil
}

// Snapshot dumps the named structure.
func (s *Session) Snapshot(target Target) (snapshot.Snapshot, error) {
	switch target {
	case TargetGeneral:
		return s.general.Snapshot(), nil
	case TargetBinary:
		return s.binary.Snapshot(), nil
	case TargetBST:
		return s.bst.Snapshot(), nil
	case TargetGraph:
		return s.graph.Snapshot(), nil
	case TargetNetwork:
		return s.network.Snapshot(), nil
	default:
		return snapshot.Snapshot{}, errors.New(errors.ErrCodeInvalidKind, "no structure %q", target)
	}
}

// Layout snapshots the named structure and computes display positions
// for it.
func (s *Session) Layout(ctx context.Context, target Target) (snapshot.Positioned, error) {
	snap, err := s.Snapshot(target)
	if err != nil {
		return snapshot.Positioned{}, err
	}
	start := time.Now()
	placed := layout.Compute(snap, s.layout)
	observability.Sandbox().OnLayout(ctx, len(snap.Nodes), time.Since(start))
	return snapshot.Positioned{Snapshot: snap, Positions: placed}, nil
}

// Route plans the cheapest path between two stations of the transit
// network. Unknown stations yield ErrCodeUnknownStation.
func (s *Session) Route(ctx context.Context, src, dst string) (route.Path, error) {
	if !s.network.Has(src) {
		return route.Path{}, errors.New(errors.ErrCodeUnknownStation, "station %q not found", src)
	}
	if !s.network.Has(dst) {
		return route.Path{}, errors.New(errors.ErrCodeUnknownStation, "station %q not found", dst)
	}
	p := s.network.ShortestPath(src, dst)
	observability.Sandbox().OnRouteQuery(ctx, src, dst, len(p.Stations))
	return p, nil
}
