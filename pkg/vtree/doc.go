// Package vtree implements the core of a virtual-DOM diffing engine.
//
// Given two immutable trees representing a previous and a next state of a
// structured, HTML-like document, Diff produces a compact patch tree (a
// NodeOp) describing the minimal edits needed to transform the previous
// tree into the next one. The patch is consumed by a renderer that lives
// outside this package.
//
// # Core types
//
// Node is the immutable element/text tree. AttrOp and NodeOp are the patch
// algebra: closed sum types describing attribute and node-level edits.
//
// # Diffing
//
// Diff is the sole entry point. It combines whole-tree comparison,
// attribute diffing, and keyed-list reconciliation with prefix/suffix
// trimming and LIS-based move minimization. The result holds borrowed
// references into the new tree only: callers must keep the new tree alive
// for as long as they hold the patch.
//
// Diff is total and pure: it never mutates its inputs, never blocks, and
// never returns an error. Malformed input (an unkeyed child inside a keyed
// middle) is a programmer error and panics with a Defect.
package vtree
