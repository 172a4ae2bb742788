// cmd/dotboot/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: config, targets, engine, secret, afero memory filesystem
// PURPOSE: Test the dotboot commands end to end against an in-memory filesystem

package dotboot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filippo.io/age"
	"github.com/adrg/xdg"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/filesystem"
	"github.com/dotboot/dotboot/pkg/secret"
	"github.com/dotboot/dotboot/pkg/testutil"
	"github.com/dotboot/dotboot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fs        types.FS
	recipient string
}

// setup isolates the environment and seeds a memory filesystem with a
// source repository whose secrets are encrypted to a fresh identity.
func setup(t *testing.T) *fixture {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "DOTBOOT_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("DOTBOOT_CONFIG_DIR", filepath.Join(tmp, "config"))
	t.Setenv("DOTFILES_ROOT", "/src")
	t.Setenv("CODER_REGION", "")
	t.Setenv("DOTBOOT_HOME_DIR", "/home/me")
	t.Setenv("DOTBOOT_IDENTITY_FILE", "/keys/id")
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	recipient := identity.Recipient().String()
	encrypt := func(plain string) string {
		out, err := secret.Encrypt([]byte(plain), []string{recipient}, true)
		require.NoError(t, err)
		return string(out)
	}

	mem := filesystem.NewMemory()
	testutil.WriteFiles(t, mem, map[string]string{
		"/keys/id":                 identity.String() + "\n",
		"/keys/id.pub":             recipient + "\n",
		"/src/git/.gitconfig":      "[user]\n\tname = me\n",
		"/src/git/private.gpg.age": encrypt("gpg-key"),
		"/src/aws/config":          "[default]\n",
		"/src/aws/credentials.age": encrypt("aws-secret"),
		"/src/nix/secret-key.age":  encrypt("nix-key"),
	})
	return &fixture{fs: mem, recipient: recipient}
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(f.fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestApplyCommand(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Targets: git, aws, nix-cache")
	assert.Contains(t, out, "wrote /home/me/.gitconfig")
	assert.Contains(t, out, "4 changed, 0 unchanged")

	assert.Equal(t, "gpg-key", testutil.ReadString(t, f.fs, "/home/me/.gpg/private.gpg"))
	assert.Equal(t, "aws-secret", testutil.ReadString(t, f.fs, "/home/me/.aws/credentials"))
	assert.Equal(t, os.FileMode(0600), testutil.Mode(t, f.fs, "/home/me/.aws/credentials"))

	out, err = f.run(t, "apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Everything up to date, 4 unchanged")
}

func TestLogFileUnderStateHome(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "-v", "targets")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(os.Getenv("XDG_STATE_HOME"), "dotboot", "dotboot.log"))
	assert.NoError(t, err, "log file is created under XDG_STATE_HOME")
}

func TestApplyCommandWithNixCache(t *testing.T) {
	f := setup(t)
	t.Setenv("CODER_REGION", "home")
	t.Setenv("DOTBOOT_NIX_CACHE__CONF_PATH", "/nix/etc/nix.conf")
	t.Setenv("DOTBOOT_NIX_CACHE__HOOK_PATH", "/nix/etc/post-build-hook")
	t.Setenv("DOTBOOT_NIX_CACHE__SECRET_KEY_PATH", "/nix/etc/secret-key")
	t.Setenv("DOTBOOT_NIX_CACHE__SUBSTITUTERS__HOME", "s3://nix-cache?profile=minio")

	out, err := f.run(t, "apply", "nix-*")
	require.NoError(t, err)
	assert.Contains(t, out, "Targets: nix-cache")
	assert.Contains(t, out, "3 changed")

	conf := testutil.ReadString(t, f.fs, "/nix/etc/nix.conf")
	assert.Contains(t, conf, "substituters = s3://nix-cache?profile=minio&compression=zstd&priority=0&trusted=true")
	assert.Contains(t, conf, "post-build-hook = /nix/etc/post-build-hook")
	assert.Equal(t, os.FileMode(0777), testutil.Mode(t, f.fs, "/nix/etc/post-build-hook"))
	assert.Equal(t, "nix-key", testutil.ReadString(t, f.fs, "/nix/etc/secret-key"))
}

func TestApplyCommandDryRun(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "apply", "git", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "would write /home/me/.gitconfig")

	_, err = f.fs.Stat("/home/me/.gitconfig")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyCommandErrors(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		f := setup(t)
		_, err := f.run(t, "apply", "ssh")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTargetNotFound))
	})

	t.Run("missing identity", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.fs.Remove("/keys/id"))

		_, err := f.run(t, "apply", "aws")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDecrypt))
		assert.True(t, errors.IsErrorCode(err, errors.ErrIO))

		_, statErr := f.fs.Stat("/home/me/.aws/config")
		assert.ErrorIs(t, statErr, os.ErrNotExist, "nothing is written when a target fails")
	})
}

func TestTargetsCommand(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "Available targets:")
	for _, name := range []string{"git", "aws", "nix-cache"} {
		assert.Contains(t, out, name)
	}
}

func TestEncryptDecryptCommands(t *testing.T) {
	f := setup(t)
	testutil.WriteFiles(t, f.fs, map[string]string{"/work/token": "s3cr3t"})

	_, err := f.run(t, "encrypt", "/work/token")
	require.NoError(t, err)
	ciphertext := testutil.ReadString(t, f.fs, "/work/token.age")
	assert.NotContains(t, ciphertext, "s3cr3t")

	_, err = f.run(t, "encrypt", "/work/token", "-r", f.recipient, "--armor", "-o", "/work/armored.age")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(testutil.ReadString(t, f.fs, "/work/armored.age"), "-----BEGIN AGE ENCRYPTED FILE-----"))

	require.NoError(t, f.fs.Remove("/work/token"))
	_, err = f.run(t, "decrypt", "/work/token.age")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", testutil.ReadString(t, f.fs, "/work/token"))
	assert.Equal(t, os.FileMode(0600), testutil.Mode(t, f.fs, "/work/token"))

	out, err := f.run(t, "decrypt", "/work/armored.age", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", out)
}

func TestDecryptCommandErrors(t *testing.T) {
	f := setup(t)
	testutil.WriteFiles(t, f.fs, map[string]string{
		"/work/plain":     "x",
		"/work/plain.age": "not age",
	})

	_, err := f.run(t, "decrypt", "/work/plain")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = f.run(t, "decrypt", "/work/plain.age")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDecrypt))
	assert.Equal(t, "/work/plain.age", errors.GetErrorDetails(err)[errors.DetailSource])
}

func TestConfigCommand(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[nix_cache]")
	assert.Contains(t, out, "/home/me")

	out, err = f.run(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "# dotboot configuration")
}

func TestVersionAndCompletion(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dotboot version dev")

	out, err = f.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "dotboot")

	_, err = f.run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestRootWithoutCommand(t *testing.T) {
	f := setup(t)
	_, err := f.run(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestTargetNamesCompletion(t *testing.T) {
	names, _ := targetNamesCompletion(nil, nil, "a")
	assert.Equal(t, []string{"aws"}, names)
}
