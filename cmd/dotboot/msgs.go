package dotboot

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Bootstrap a machine's dotfiles"
	MsgApplyShort      = "Apply the selected targets"
	MsgTargetsShort    = "List available targets"
	MsgEncryptShort    = "Encrypt a file with age"
	MsgDecryptShort    = "Decrypt an age file"
	MsgConfigShort     = "Print the effective configuration"
	MsgDefaultsShort   = "Print the default configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat = "dotboot version %s\n  commit: %s\n  built:  %s\n"
	MsgWroteFile     = "Wrote %s"

	// Error messages
	MsgErrInitPaths    = "failed to initialize paths"
	MsgErrNoCommand    = "no command specified"
	MsgErrNoOutput     = "cannot derive output name from %s, use --output"
	MsgErrNoRecipients = "no recipients given and %s is not readable"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file (default $XDG_CONFIG_HOME/dotboot/config.toml)"
	MsgFlagNoColor   = "Disable colored output"
	MsgFlagDryRun    = "Show what would change without writing"
	MsgFlagAtomic    = "Write files through a temp file and rename"
	MsgFlagRecipient = "Recipient public key, age or SSH (repeatable)"
	MsgFlagArmor     = "Write PEM armored output"
	MsgFlagOutput    = "Output file, - for stdout"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/apply-example.txt
	msgApplyExampleRaw string
	MsgApplyExample    = strings.TrimRight(msgApplyExampleRaw, "\n")

	//go:embed msgs/encrypt-long.txt
	msgEncryptLongRaw string
	MsgEncryptLong    = strings.TrimSpace(msgEncryptLongRaw)

	//go:embed msgs/decrypt-long.txt
	msgDecryptLongRaw string
	MsgDecryptLong    = strings.TrimSpace(msgDecryptLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"
)
