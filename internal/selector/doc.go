// Package selector picks one encoding from a catalog snapshot for a
// kind/container/quality request. It is stateless; the fallback behavior
// lives in the pipeline policy table, which calls Select once per row.
package selector
