// Package tracker aggregates per-encoding byte counts into one combined
// progress percentage. A Tracker is safe for concurrent use.
package tracker
