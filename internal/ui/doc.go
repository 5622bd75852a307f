// Package ui renders git and npm command lifecycle events for the terminal.
//
// Events are translated into short sentences so that the person answering the
// interactive npm prompts can follow along, while detailed telemetry keeps
// flowing through the structured application logger.
package ui
