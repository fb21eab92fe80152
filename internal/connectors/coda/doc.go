// Package coda talks to the Coda REST API (v1): documents, tables,
// columns and rows. It handles bearer-token auth, proactive rate
// limiting and page-token pagination internally, and converts wire
// shapes into the domain types the mapping engine consumes.
package coda
