// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI and MCP adapters depend on these
// and are handed concrete services at startup.
package driving
