// Package driving defines the interfaces through which the CLI (or
// any other entry point) drives the core services.
package driving
