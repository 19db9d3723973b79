// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - Config: typed TOML configuration with env-var overrides
//   - PromptStore: user-editable prompt templates
package file
