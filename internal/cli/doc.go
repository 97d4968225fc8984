// Package cli handles command-line argument parsing for the cmdbridgego
// binary and the mapping of parse failures to process exit codes.
package cli
