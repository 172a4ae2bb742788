package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dotboot/dotboot/pkg/errors"
)

// Environment variable names
const (
	// EnvDotfilesRoot points at the source repository
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvConfigDir overrides the XDG config directory for dotboot
	EnvConfigDir = "DOTBOOT_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for dotboot-specific files
	AppDirName = "dotboot"

	// ConfigFileName is the user configuration file inside the config dir
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "dotboot.log"
)

// Paths provides centralized path management for dotboot
type Paths interface {
	SourceRoot() string
	UsedFallback() bool
	HomeDir() string
	ConfigFile() string
	LogFilePath() string
}

type paths struct {
	sourceRoot   string
	usedFallback bool
	home         string
	configDir    string
	stateDir     string
}

// New creates a Paths instance. An empty sourceRoot is resolved from the
// environment, see findSourceRoot.
func New(sourceRoot string) (Paths, error) {
	p := &paths{}

	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}
	p.home = home

	if sourceRoot == "" {
		root, usedFallback, err := findSourceRoot()
		if err != nil {
			return nil, err
		}
		p.sourceRoot = root
		p.usedFallback = usedFallback
	} else {
		p.sourceRoot = ExpandHome(sourceRoot)
	}

	absRoot, err := filepath.Abs(p.sourceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for source root")
	}
	p.sourceRoot = absRoot

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = ExpandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	p.stateDir = filepath.Join(xdg.StateHome, AppDirName)

	return p, nil
}

// findSourceRoot determines the source root using the following priority:
// 1. DOTFILES_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback, reported through UsedFallback)
func findSourceRoot() (string, bool, error) {
	if root := os.Getenv(EnvDotfilesRoot); root != "" {
		return ExpandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrIO, "failed to get current directory")
	}
	return cwd, true, nil
}

func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment variable.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	if homeDir = os.Getenv(EnvHome); homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrIO, "unable to determine home directory: neither os.UserHomeDir() nor HOME environment variable are available")
}

// ExpandHome expands a leading ~ or ~/ to the home directory. Paths it
// cannot expand are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not supported
	return path
}

func (p *paths) SourceRoot() string { return p.sourceRoot }

func (p *paths) UsedFallback() bool { return p.usedFallback }

func (p *paths) HomeDir() string { return p.home }

func (p *paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// LogFilePath is the log file under the XDG state directory.
func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}
