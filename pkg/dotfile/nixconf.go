package dotfile

// Field names of /etc/nix/nix.conf owned by dotboot.
// See https://nixos.org/manual/nix/stable/command-ref/conf-file
const (
	NixSubstituters      = "substituters"
	NixTrustedPublicKeys = "trusted-public-keys"
	NixPostBuildHook     = "post-build-hook"
	NixSecretKeyFiles    = "secret-key-files"
)

// NixConfSchema is the subset of nix.conf settings a binary cache setup needs.
var NixConfSchema = NewSchema("nix.conf", DefaultPermission,
	Field{Name: NixSubstituters, Kind: ListField},
	Field{Name: NixTrustedPublicKeys, Kind: ListField},
	Field{Name: NixPostBuildHook, Kind: OptionalField},
	Field{Name: NixSecretKeyFiles, Kind: ListField},
)

// NixConf is a Structured declaration over NixConfSchema with typed setters.
type NixConf struct {
	*Structured
}

// NewNixConf returns an empty nix.conf declaration.
func NewNixConf() NixConf {
	return NixConf{NewStructured(NixConfSchema)}
}

func (n NixConf) WithSubstituters(substituters ...string) NixConf {
	n.Add(NixSubstituters, substituters...)
	return n
}

func (n NixConf) WithTrustedPublicKeys(keys ...string) NixConf {
	n.Add(NixTrustedPublicKeys, keys...)
	return n
}

func (n NixConf) WithPostBuildHook(hook string) NixConf {
	n.Set(NixPostBuildHook, hook)
	return n
}

func (n NixConf) WithSecretKeyFiles(files ...string) NixConf {
	n.Add(NixSecretKeyFiles, files...)
	return n
}
