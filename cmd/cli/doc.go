// Package cli constructs the create-module command-line interface. It wires
// the Cobra root command, the configuration loader and structured logging, then
// assembles the scaffolding pipeline from the internal packages.
package cli
