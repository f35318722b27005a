// Package pkg provides the core libraries of the structlab sandbox.
//
// # Overview
//
// Structlab hosts a set of editable in-memory structures behind one
// session, plus a shortest-path planner over a fixed transit network.
// The pkg directory is organized by structure and concern:
//
//  1. [structure] - Node forests (general and binary) and the binary search tree
//  2. [sandbox] - The ad-hoc weighted graph under interactive construction
//  3. [registry] - Detached-fragment storage and the claim-token protocol
//  4. [route] - The weighted multigraph planner and the Metro Manila network
//  5. [layout] - Force-directed placement for display
//  6. [session] - The service object wiring everything together
//  7. [snapshot], [export], [archive] - Dumps, Graphviz rendering, persistence
//
// # Architecture
//
// The typical data flow through structlab:
//
//	HTTP request / CLI command
//	         ↓
//	    [session] package (orchestration, token protocol)
//	         ↓
//	    [structure] / [sandbox] / [route] packages (domain operations)
//	         ↓
//	    [snapshot] package (stable dumps)
//	         ↓
//	    [layout] / [export] / [archive] (positions, DOT/SVG, persistence)
//
// Structures never reference each other; moving a fragment between them
// always passes through the registry's token protocol.
package pkg
