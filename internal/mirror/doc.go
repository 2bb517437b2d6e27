// Package mirror implements organization backup mirroring.
//
// The package contains the per-repository reconciliation workflow (delete the
// stale backup, create or reuse the backup repository, mirror-clone the
// source, mirror-push into the backup) together with the run orchestration
// that lists source repositories, filters protected and archived entries,
// drives the reconciler sequentially, and aggregates the run summary.
package mirror
