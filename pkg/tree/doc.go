// Package tree provides the rooted phylogenetic tree model.
//
// A [Tree] stores its nodes in an arena and hands out [NodeID] handles.
// Each node carries a label, a branch length (the distance to its parent,
// 1 by default) and an ordered list of children. Child order is the order
// in which the nodes were attached and is never re-sorted, because it fixes
// the top-to-bottom placement of tips in a layout.
//
// # Building
//
// Trees are normally produced by the newick package. Building one by hand
// uses [Tree.NewNode] and [Tree.AddChild]:
//
//	t := tree.New()
//	root := t.NewNode()
//	a := t.NewNode()
//	t.SetName(a, "A")
//	_ = t.AddChild(root, a)
//
// AddChild rejects nodes that already have a parent, so a tree can never
// gain shared children or cycles.
//
// # Handles
//
// Accessors and setters that take a [NodeID] ([Tree.Name], [Tree.SetName],
// [Tree.Children], [Tree.NTips], [Tree.TipNodes] and the like) index the
// arena directly and panic on a handle that does not belong to the tree,
// the same way an out-of-range slice index does. Check untrusted handles
// with [Tree.Contains] first. [Tree.AddChild] and the distance queries
// report [ErrUnknownNode] instead, [Tree.IsDescendant] reports false, and
// [Tree.Newick] writes ";" for such a handle.
//
// # Queries
//
// Every query is read-only. Traversals use an explicit stack rather than
// call recursion, so very deep caterpillar trees do not exhaust the
// goroutine stack. Queries that assume one node is reachable from another
// ([Tree.DistanceToAncestor], [Tree.CommonAncestor], [Tree.DistanceOnTree])
// return an error when the assumption is false.
//
// # Serialization
//
// [Tree.Newick] writes a subtree back to Newick text with branch lengths at
// a chosen precision, or without branch lengths at all.
package tree
