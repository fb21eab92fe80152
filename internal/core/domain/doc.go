// Package domain contains the core types shared between the Coda
// connector, the mapping engine and the collection adapters.
// It has no dependencies on other packages in this module.
package domain
