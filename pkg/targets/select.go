package targets

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/registry"
)

// Builtin returns a registry holding every target dotboot ships, in the
// order their contributions are merged.
func Builtin() registry.Registry[Target] {
	reg := registry.New[Target]()
	for _, t := range []Target{Git{}, AWS{}, NixCache{}} {
		registry.MustRegister(reg, t.Name(), t)
	}
	return reg
}

// Select returns the targets whose names match any of patterns, in
// registration order. Patterns use doublestar syntax. No patterns selects
// every target. A pattern matching nothing is an error.
func Select(reg registry.Registry[Target], patterns []string) ([]Target, error) {
	names := reg.List()
	if len(patterns) == 0 {
		return lookup(reg, names)
	}

	selected := make(map[string]bool, len(names))
	for _, pattern := range patterns {
		matched := false
		for _, name := range names {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid target pattern %q", pattern).
					WithDetail(errors.DetailTarget, pattern)
			}
			if ok {
				selected[name] = true
				matched = true
			}
		}
		if !matched {
			return nil, errors.Newf(errors.ErrTargetNotFound, "no target matches %q", pattern).
				WithDetail(errors.DetailTarget, pattern)
		}
	}

	var ordered []string
	for _, name := range names {
		if selected[name] {
			ordered = append(ordered, name)
		}
	}
	return lookup(reg, ordered)
}

func lookup(reg registry.Registry[Target], names []string) ([]Target, error) {
	result := make([]Target, 0, len(names))
	for _, name := range names {
		t, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}
