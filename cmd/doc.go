// Package cmd implements the cellar command line interface.
//
// The CLI is a driver around the library packages, not part of the core
// engine surface: the sim subcommand runs deterministic workloads against a
// configured store engine to observe accounting and lazy-deletion behaviour.
package cmd
