package targets

import (
	"bytes"
	_ "embed"
	"io/fs"
	"strings"
	"text/template"

	"github.com/dotboot/dotboot/pkg/dotfile"
	"github.com/dotboot/dotboot/pkg/engine"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/logging"
)

const nixSecretKeySource = "nix/secret-key.age"

// hookPermission lets the nix daemon execute the hook.
const hookPermission fs.FileMode = 0777

//go:embed templates/post-build-hook.sh.tmpl
var postBuildHookTemplate string

var hookTemplate = template.Must(template.New("post-build-hook").
	Funcs(template.FuncMap{"quote": shellQuote}).
	Parse(postBuildHookTemplate))

// NixCache points nix at the personal binary cache of the current region
// and installs a post-build hook that signs and uploads every build.
// Regions without a configured substituter contribute nothing.
type NixCache struct{}

func (NixCache) Name() string { return "nix-cache" }

func (NixCache) Description() string { return "nix.conf substituter, post-build hook and signing key" }

func (NixCache) Dotfiles(env *Env) (engine.Contribution, error) {
	logger := logging.GetLogger("targets.nix-cache")
	cache := env.Config.NixCache
	region := env.Config.ParsedRegion()

	substituter, ok := cache.Substituter(region)
	if !ok {
		logger.Debug().Str("region", region.String()).Msg("No nix cache for region")
		return engine.Contribution{}, nil
	}

	conf := dotfile.NewNixConf().
		WithSubstituters(substituter).
		WithPostBuildHook(cache.HookPath).
		WithSecretKeyFiles(cache.SecretKeyPath)
	if cache.PublicKey != "" {
		conf = conf.WithTrustedPublicKeys(cache.PublicKey)
	}

	hook, err := renderHook(substituter, cache.SecretKeyPath)
	if err != nil {
		return nil, err
	}

	key, err := env.ReadSecret(nixSecretKeySource)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("region", region.String()).Str("substituter", substituter).Msg("Using nix cache")
	return engine.Contribution{
		cache.ConfPath:      conf,
		cache.HookPath:      dotfile.NewOpaqueString(hook).WithPermissions(hookPermission),
		cache.SecretKeyPath: dotfile.NewOpaque(key).WithPermissions(secretPermission),
	}, nil
}

func renderHook(substituter, secretKeyPath string) (string, error) {
	var buf bytes.Buffer
	err := hookTemplate.Execute(&buf, struct {
		Substituter   string
		SecretKeyPath string
	}{substituter, secretKeyPath})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render post-build hook")
	}
	return buf.String(), nil
}

// shellQuote wraps s in single quotes for bash.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
