// Package paths provides centralized path handling for dotboot.
//
// It handles:
//
//   - Source root discovery (the dotfiles repository holding plain and
//     encrypted source files)
//   - The home directory targets write into
//   - XDG config and state directories of dotboot itself
//   - ~ expansion
//
// # Environment Variables
//
//   - DOTFILES_ROOT: location of the source repository (default: git root
//     of the working directory, then the working directory)
//   - DOTBOOT_CONFIG_DIR: override $XDG_CONFIG_HOME/dotboot
//   - XDG_STATE_HOME: base of the log directory
package paths
