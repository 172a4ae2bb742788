package targets

import (
	"github.com/dotboot/dotboot/pkg/dotfile"
	"github.com/dotboot/dotboot/pkg/engine"
)

const (
	awsConfigSource      = "aws/config"
	awsCredentialsSource = "aws/credentials.age"
)

// AWS installs the AWS CLI profile config and credentials.
type AWS struct{}

func (AWS) Name() string { return "aws" }

func (AWS) Description() string { return "~/.aws/config and ~/.aws/credentials" }

func (AWS) Dotfiles(env *Env) (engine.Contribution, error) {
	awsConfig, err := env.ReadSource(awsConfigSource)
	if err != nil {
		return nil, err
	}
	credentials, err := env.ReadSecret(awsCredentialsSource)
	if err != nil {
		return nil, err
	}

	return engine.Contribution{
		env.HomePath(".aws/config"):      dotfile.NewOpaque(awsConfig),
		env.HomePath(".aws/credentials"): dotfile.NewOpaque(credentials).WithPermissions(secretPermission),
	}, nil
}
