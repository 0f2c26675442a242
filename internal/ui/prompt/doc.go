// Package prompt provides the interactive prompts wsi shows on a terminal.
//
// Prompts render on stderr so stdout stays usable in command substitution
// (cd $(wsi find -i api)). Callers must check for an interactive terminal
// before prompting.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [Select]: Single selection from a filterable list
package prompt
