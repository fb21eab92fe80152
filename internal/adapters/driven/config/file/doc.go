// Package file provides a file-based implementation of the config
// store port, persisting settings as TOML in the codaframer config
// directory.
package file
