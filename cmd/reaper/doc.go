// Package main hosts the reaper CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, runs preflight checks, and
// then drives the scanner, summary, and upload packages. Transfer backends
// are chosen here from the target URL so the internal packages never depend
// on each other's concrete transports.
package main
