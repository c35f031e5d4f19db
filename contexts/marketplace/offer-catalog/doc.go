// Package offercatalog owns offers and their tiered pricing packages.
//
// The catalog enforces the one-detail-per-tier invariant and performs the
// atomic delete-all/insert-all replacement of a detail set when an offer
// update supplies one.
package offercatalog
