// Package driven defines the interfaces the core services consume:
// the upstream data source, the destination collection, and the
// config store. Adapters implement these; services depend only on
// the interfaces.
package driven
