// pkg/secret/secret_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: age
// PURPOSE: Test age round trips with native and SSH identities

package secret_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	stderrors "errors"
	"strings"
	"testing"

	"filippo.io/age"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/filesystem"
	"github.com/dotboot/dotboot/pkg/secret"
	"github.com/dotboot/dotboot/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestNativeIdentityRoundTrip(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	for _, armored := range []bool{false, true} {
		ciphertext, err := secret.Encrypt([]byte("aws_secret_access_key = x"), []string{identity.Recipient().String()}, armored)
		require.NoError(t, err)
		if armored {
			assert.True(t, strings.HasPrefix(string(ciphertext), "-----BEGIN AGE ENCRYPTED FILE-----"))
		}

		d, err := secret.NewAgeDecryptor([]byte(identity.String() + "\n"))
		require.NoError(t, err)

		plaintext, err := d.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, "aws_secret_access_key = x", string(plaintext))
	}
}

func TestSSHIdentityRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))

	ciphertext, err := secret.Encrypt([]byte{0x00, 0xff, 0x10}, []string{authorized}, false)
	require.NoError(t, err)

	mem := filesystem.NewMemory()
	testutil.WriteFiles(t, mem, map[string]string{
		"/home/me/.ssh/id_ed25519": string(pem.EncodeToMemory(block)),
	})

	d, err := secret.LoadIdentityFile(mem, "/home/me/.ssh/id_ed25519")
	require.NoError(t, err)

	plaintext, err := d.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0x10}, plaintext)
}

func TestDecryptWithWrongIdentity(t *testing.T) {
	sender, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	other, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	ciphertext, err := secret.Encrypt([]byte("x"), []string{sender.Recipient().String()}, false)
	require.NoError(t, err)

	d, err := secret.NewAgeDecryptor([]byte(other.String()))
	require.NoError(t, err)
	_, err = d.Decrypt(ciphertext)
	assert.Error(t, err)
}

func TestInvalidInputs(t *testing.T) {
	_, err := secret.NewAgeDecryptor([]byte("not a key"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = secret.Encrypt([]byte("x"), nil, false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = secret.Encrypt([]byte("x"), []string{"garbage"}, false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = secret.LoadIdentityFile(filesystem.NewMemory(), "/missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
}

func TestDecryptError(t *testing.T) {
	cause := stderrors.New("no identity matched")
	err := secret.DecryptError("aws/credentials.age", cause)

	assert.True(t, errors.IsErrorCode(err, errors.ErrDecrypt))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "aws/credentials.age", err.Details[errors.DetailSource])
}

func TestDecryptorFunc(t *testing.T) {
	d := secret.DecryptorFunc(func(b []byte) ([]byte, error) { return append([]byte("plain:"), b...), nil })
	out, err := d.Decrypt([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "plain:x", string(out))
}

func TestLazyLoadsOnce(t *testing.T) {
	loads := 0
	d := secret.Lazy(func() (secret.Decryptor, error) {
		loads++
		return secret.DecryptorFunc(func(b []byte) ([]byte, error) { return b, nil }), nil
	})
	assert.Equal(t, 0, loads, "nothing is loaded before first use")

	for i := 0; i < 3; i++ {
		out, err := d.Decrypt([]byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "x", string(out))
	}
	assert.Equal(t, 1, loads)
}

func TestLazyLoadFailure(t *testing.T) {
	loadErr := stderrors.New("no identity")
	d := secret.Lazy(func() (secret.Decryptor, error) { return nil, loadErr })

	_, err := d.Decrypt([]byte("x"))
	assert.ErrorIs(t, err, loadErr)
}
