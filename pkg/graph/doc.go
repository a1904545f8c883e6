// Package graph holds the in-memory topology model: nodes, links and the
// rules that keep them consistent.
//
// # Model
//
// A [Graph] owns an ordered set of [Node] values keyed by [ID] and an ordered
// set of undirected [Link] values. Links reference their endpoints by pointer,
// so moving a node through the simulation moves both ends of every incident
// link without any bookkeeping.
//
// The graph enforces four structural rules:
//
//   - node ids are unique
//   - a link never connects a node to itself
//   - at most one link exists per unordered pair of nodes
//   - both endpoints of a link are present in the graph
//
// Insertions validate first and commit second: a rejected node or link leaves
// the graph untouched and returns a coded error from pkg/errors.
//
// # Removal
//
// [Graph.RemoveNodes] cascades to every incident link. Both removal methods
// hand each dropped entity to a [Releaser] before forgetting it, which is how
// the scene layer discards the primitive bound to the entity.
//
// # Identifiers
//
// Ids are strings. Seed files may carry integer ids; [ParseID] folds those
// into their decimal form so that 3 and "3" name the same node.
package graph
