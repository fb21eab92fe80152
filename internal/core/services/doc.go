// Package services implements the mapping engine: column-to-field
// type mapping, raw value transformation, cross-collection reference
// resolution, and the sync orchestrator that ties them together.
// Everything here depends only on the domain types and the ports.
package services
