package targets

import (
	"github.com/dotboot/dotboot/pkg/dotfile"
	"github.com/dotboot/dotboot/pkg/engine"
)

const (
	gitConfigSource = "git/.gitconfig"
	gpgKeySource    = "git/private.gpg.age"
)

// Git installs the global git config and the signing key it references.
type Git struct{}

func (Git) Name() string { return "git" }

func (Git) Description() string { return "~/.gitconfig and the GPG signing key" }

func (Git) Dotfiles(env *Env) (engine.Contribution, error) {
	gitConfig, err := env.ReadSource(gitConfigSource)
	if err != nil {
		return nil, err
	}
	gpgKey, err := env.ReadSecret(gpgKeySource)
	if err != nil {
		return nil, err
	}

	return engine.Contribution{
		env.HomePath(".gitconfig"):       dotfile.NewOpaque(gitConfig),
		env.HomePath(".gpg/private.gpg"): dotfile.NewOpaque(gpgKey).WithPermissions(secretPermission),
	}, nil
}
