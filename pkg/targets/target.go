package targets

import (
	"io/fs"
	"path/filepath"

	"github.com/dotboot/dotboot/pkg/config"
	"github.com/dotboot/dotboot/pkg/engine"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/secret"
	"github.com/dotboot/dotboot/pkg/types"
)

// secretPermission keeps decrypted material private to its owner.
const secretPermission fs.FileMode = 0600

// Target produces the dotfiles for one concern of the machine.
type Target interface {
	Name() string
	Description() string
	Dotfiles(env *Env) (engine.Contribution, error)
}

// Env is what targets read from. It is shared by concurrently running
// targets and must not be modified once Collect starts.
type Env struct {
	Config    *config.Config
	FS        types.FS
	Decryptor secret.Decryptor
}

// HomePath joins rel onto the configured home directory.
func (e *Env) HomePath(rel string) string {
	return filepath.Join(e.Config.HomeDir, rel)
}

// ReadSource reads a plain file from the source repository.
func (e *Env) ReadSource(rel string) ([]byte, error) {
	path := filepath.Join(e.Config.SourceDir, rel)
	content, err := e.FS.ReadFile(path)
	if err != nil {
		return nil, errors.IO(err, path, engine.OpRead).WithDetail(errors.DetailSource, rel)
	}
	return content, nil
}

// ReadSecret reads and decrypts an age file from the source repository.
func (e *Env) ReadSecret(rel string) ([]byte, error) {
	ciphertext, err := e.ReadSource(rel)
	if err != nil {
		return nil, err
	}
	if e.Decryptor == nil {
		return nil, secret.DecryptError(rel, errors.New(errors.ErrDecrypt, "no identity configured"))
	}
	plaintext, err := e.Decryptor.Decrypt(ciphertext)
	if err != nil {
		return nil, secret.DecryptError(rel, err)
	}
	return plaintext, nil
}
