// Package paging computes pagination controls for listing views.
//
// The package is a single pure function over (current page, total pages,
// window size). It emits the set of page numbers to show, gap markers where
// runs of pages are collapsed, and whether the previous/next controls are
// enabled. Because Compute has no side effects and no dependencies, every
// listing view shares one implementation and the behavior is covered by
// table-driven tests.
package paging
