package secret

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"filippo.io/age/armor"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/types"
)

// Decryptor turns ciphertext into plaintext.
type Decryptor interface {
	Decrypt(ciphertext []byte) ([]byte, error)
}

// DecryptorFunc adapts a function to the Decryptor interface.
type DecryptorFunc func(ciphertext []byte) ([]byte, error)

func (f DecryptorFunc) Decrypt(ciphertext []byte) ([]byte, error) { return f(ciphertext) }

// DecryptError reports that the secret read from source could not be decrypted.
func DecryptError(source string, err error) *errors.DotbootError {
	return errors.Wrapf(err, errors.ErrDecrypt, "failed to decrypt %s", source).
		WithDetail(errors.DetailSource, source)
}

// Lazy returns a Decryptor that calls load on first use, so identities are
// only read when a secret is actually needed. It is safe for concurrent use.
func Lazy(load func() (Decryptor, error)) Decryptor {
	once := sync.OnceValues(load)
	return DecryptorFunc(func(ciphertext []byte) ([]byte, error) {
		d, err := once()
		if err != nil {
			return nil, err
		}
		return d.Decrypt(ciphertext)
	})
}

// AgeDecryptor decrypts age files with a fixed set of identities.
type AgeDecryptor struct {
	identities []age.Identity
}

// NewAgeDecryptor parses key, either an unencrypted OpenSSH private key or
// a file of native age identities.
func NewAgeDecryptor(key []byte) (*AgeDecryptor, error) {
	if sshIdentity, err := agessh.ParseIdentity(key); err == nil {
		return &AgeDecryptor{identities: []age.Identity{sshIdentity}}, nil
	}

	identities, err := age.ParseIdentities(bytes.NewReader(key))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to parse identity")
	}
	return &AgeDecryptor{identities: identities}, nil
}

// LoadIdentityFile reads an identity from path and builds an AgeDecryptor.
func LoadIdentityFile(fsys types.FS, path string) (*AgeDecryptor, error) {
	key, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.IO(err, path, "read")
	}
	d, err := NewAgeDecryptor(key)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid identity file %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return d, nil
}

// Decrypt accepts both binary and armored age files.
func (d *AgeDecryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	var src io.Reader = bytes.NewReader(ciphertext)
	if isArmored(ciphertext) {
		src = armor.NewReader(src)
	}

	r, err := age.Decrypt(src, d.identities...)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read decrypted data: %w", err)
	}
	return plaintext, nil
}

func isArmored(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(armor.Header))
}

// ParseRecipient accepts an SSH public key line or an age1... recipient.
func ParseRecipient(s string) (age.Recipient, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "age1") {
		return age.ParseX25519Recipient(s)
	}
	return agessh.ParseRecipient(s)
}

// Encrypt encrypts plaintext to every recipient. With armored set the
// output is PEM style text suitable for committing next to other dotfiles.
func Encrypt(plaintext []byte, recipients []string, armored bool) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "at least one recipient is required")
	}

	parsed := make([]age.Recipient, 0, len(recipients))
	for _, r := range recipients {
		recipient, err := ParseRecipient(r)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid recipient %q", r)
		}
		parsed = append(parsed, recipient)
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf
	var armorWriter io.WriteCloser
	if armored {
		armorWriter = armor.NewWriter(&buf)
		dst = armorWriter
	}

	w, err := age.Encrypt(dst, parsed...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEncrypt, "failed to start encryption")
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, errors.Wrap(err, errors.ErrEncrypt, "failed to encrypt")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrEncrypt, "failed to finish encryption")
	}
	if armorWriter != nil {
		if err := armorWriter.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrEncrypt, "failed to finish armor")
		}
	}

	return buf.Bytes(), nil
}
