// Package targets declares what dotboot manages on a machine.
//
// A Target contributes a mapping from absolute paths to dotfile
// declarations. Plain sources and age encrypted secrets are read from the
// source repository:
//
//	git/.gitconfig           -> ~/.gitconfig
//	git/private.gpg.age      -> ~/.gpg/private.gpg
//	aws/config               -> ~/.aws/config
//	aws/credentials.age      -> ~/.aws/credentials
//	nix/secret-key.age       -> nix_cache.secret_key_path
//
// Targets never write. Collect builds all contributions concurrently and
// merges them in registration order; the engine applies the result.
package targets
