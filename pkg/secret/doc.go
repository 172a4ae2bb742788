// Package secret decrypts and encrypts the secret material targets embed
// in dotfiles (credentials, signing keys).
//
// Files are age encrypted, binary or ASCII armored, to an SSH or native
// age recipient. The apply engine never calls this package; targets do,
// and report failures with DecryptError so the failing source is named.
package secret
