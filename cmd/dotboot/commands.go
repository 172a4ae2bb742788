package dotboot

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/dotboot/dotboot/internal/version"
	"github.com/dotboot/dotboot/pkg/config"
	"github.com/dotboot/dotboot/pkg/engine"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/filesystem"
	"github.com/dotboot/dotboot/pkg/logging"
	"github.com/dotboot/dotboot/pkg/output"
	"github.com/dotboot/dotboot/pkg/paths"
	"github.com/dotboot/dotboot/pkg/secret"
	"github.com/dotboot/dotboot/pkg/targets"
	"github.com/dotboot/dotboot/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	ageSuffix                       = ".age"
	stdoutName                      = "-"
	encryptedPermission fs.FileMode = 0644
	decryptedPermission fs.FileMode = 0600
)

// app holds what every command shares: the filesystem it works on and the
// global flags.
type app struct {
	fs         types.FS
	paths      paths.Paths
	verbosity  int
	configFile string
	noColor    bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(filesystem.NewOS())
}

func newRootCmd(fsys types.FS) *cobra.Command {
	a := &app{fs: fsys}

	rootCmd := &cobra.Command{
		Use:     "dotboot",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New("")
			if err != nil {
				return errors.Wrap(err, errors.GetErrorCode(err), MsgErrInitPaths)
			}
			a.paths = p

			logging.SetupLogger(a.verbosity, p.LogFilePath())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "secrets", Title: "SECRETS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(a.newApplyCmd())
	rootCmd.AddCommand(a.newTargetsCmd())
	rootCmd.AddCommand(a.newEncryptCmd())
	rootCmd.AddCommand(a.newDecryptCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig loads the configuration, warning when the source directory is
// only the working directory.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{File: a.configFile, Paths: a.paths})
	if err != nil {
		return nil, err
	}

	if a.paths.UsedFallback() && cfg.SourceDir == a.paths.SourceRoot() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, a.paths.SourceRoot())
	}
	return cfg, nil
}

func (a *app) renderer(cmd *cobra.Command) (*output.Renderer, error) {
	return output.NewRenderer(cmd.OutOrStdout(), a.noColor)
}

// decryptor defers reading the identity until a target needs a secret.
func (a *app) decryptor(cfg *config.Config) secret.Decryptor {
	return secret.Lazy(func() (secret.Decryptor, error) {
		d, err := secret.LoadIdentityFile(a.fs, cfg.IdentityFile)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}

// writeOutput writes data to dest, or to the command's stdout for "-".
func (a *app) writeOutput(cmd *cobra.Command, dest string, data []byte, perm fs.FileMode) error {
	if dest == stdoutName {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := a.fs.WriteFile(dest, data, perm); err != nil {
		return errors.IO(err, dest, engine.OpWrite)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), MsgWroteFile+"\n", dest)
	return nil
}

func (a *app) newApplyCmd() *cobra.Command {
	var dryRun, atomic bool

	cmd := &cobra.Command{
		Use:               "apply [targets...]",
		Short:             MsgApplyShort,
		Long:              MsgApplyLong,
		Example:           MsgApplyExample,
		GroupID:           "core",
		ValidArgsFunction: targetNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.apply")

			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			patterns := args
			if len(patterns) == 0 {
				patterns = cfg.Targets
			}
			selected, err := targets.Select(targets.Builtin(), patterns)
			if err != nil {
				return err
			}
			names := make([]string, len(selected))
			for i, t := range selected {
				names[i] = t.Name()
			}

			logger.Info().
				Strs("targets", names).
				Str("region", cfg.Region).
				Bool("dryRun", dryRun).
				Msg("Starting apply")

			env := &targets.Env{Config: cfg, FS: a.fs, Decryptor: a.decryptor(cfg)}
			mapping, err := targets.Collect(cmd.Context(), env, selected)
			if err != nil {
				return err
			}

			result, err := engine.NewApplier(a.fs, engine.Options{
				DryRun: dryRun,
				Atomic: atomic || cfg.Apply.Atomic,
			}).Apply(mapping)
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderApply(&output.ApplyReport{
				Targets:   names,
				Changed:   result.Changed,
				Unchanged: result.Unchanged,
				DryRun:    result.DryRun,
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&atomic, "atomic", false, MsgFlagAtomic)
	return cmd
}

func (a *app) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "targets",
		Short:   MsgTargetsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := targets.Builtin()
			all, err := targets.Select(reg, nil)
			if err != nil {
				return err
			}

			infos := make([]output.TargetInfo, len(all))
			for i, t := range all {
				infos[i] = output.TargetInfo{Name: t.Name(), Description: t.Description()}
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderTargets(infos)
		},
	}
}

func (a *app) newEncryptCmd() *cobra.Command {
	var (
		recipients []string
		armored    bool
		out        string
	)

	cmd := &cobra.Command{
		Use:     "encrypt <file>",
		Short:   MsgEncryptShort,
		Long:    MsgEncryptLong,
		GroupID: "secrets",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			plaintext, err := a.fs.ReadFile(input)
			if err != nil {
				return errors.IO(err, input, engine.OpRead)
			}

			if len(recipients) == 0 {
				cfg, err := a.loadConfig(cmd)
				if err != nil {
					return err
				}
				pub := cfg.IdentityFile + ".pub"
				data, err := a.fs.ReadFile(pub)
				if err != nil {
					return errors.Wrapf(err, errors.ErrInvalidInput, MsgErrNoRecipients, pub).
						WithDetail(errors.DetailPath, pub)
				}
				recipients = []string{strings.TrimSpace(string(data))}
			}

			ciphertext, err := secret.Encrypt(plaintext, recipients, armored)
			if err != nil {
				return err
			}

			dest := out
			if dest == "" {
				dest = input + ageSuffix
			}
			return a.writeOutput(cmd, dest, ciphertext, encryptedPermission)
		},
	}

	cmd.Flags().StringArrayVarP(&recipients, "recipient", "r", nil, MsgFlagRecipient)
	cmd.Flags().BoolVarP(&armored, "armor", "a", false, MsgFlagArmor)
	cmd.Flags().StringVarP(&out, "output", "o", "", MsgFlagOutput)
	return cmd
}

func (a *app) newDecryptCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "decrypt <file.age>",
		Short:   MsgDecryptShort,
		Long:    MsgDecryptLong,
		GroupID: "secrets",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			dest := out
			if dest == "" {
				if !strings.HasSuffix(input, ageSuffix) {
					return errors.Newf(errors.ErrInvalidInput, MsgErrNoOutput, input)
				}
				dest = strings.TrimSuffix(input, ageSuffix)
			}

			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			ciphertext, err := a.fs.ReadFile(input)
			if err != nil {
				return errors.IO(err, input, engine.OpRead)
			}

			plaintext, err := a.decryptor(cfg).Decrypt(ciphertext)
			if err != nil {
				return secret.DecryptError(input, err)
			}
			return a.writeOutput(cmd, dest, plaintext, decryptedPermission)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", MsgFlagOutput)
	return cmd
}

func (a *app) newConfigCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultsContent())
				return err
			}

			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			rendered, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgDefaultsShort)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}

// targetNamesCompletion completes target names for apply
func targetNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, name := range targets.Builtin().List() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
