// SPDX-License-Identifier: EPL-2.0

// Package router implements the send-matrix that connects source outputs to
// global effect inputs (spec §4.7). Edges are owned entirely by the Router;
// both endpoints participate through weak references supplied by the
// caller, so neither a source nor an effect ever holds a strong reference
// to the other. Dead endpoints are pruned lazily, during iteration, rather
// than eagerly — grounded in original_source/src/router.cpp's lazy-prune
// design, though the edges here sit in a flat, unsorted list that is
// searched linearly.
package router
