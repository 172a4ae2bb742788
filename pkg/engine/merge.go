package engine

import (
	"github.com/dotboot/dotboot/pkg/dotfile"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/logging"
)

// Contribution maps absolute file paths to the declarations one target
// wants for them.
type Contribution map[string]dotfile.Dotfile

// MergeDotfiles folds contributions left to right into a single mapping.
// A path declared by more than one contribution is merged with
// dotfile.Merge. The first conflict aborts the fold and no mapping is
// returned.
func MergeDotfiles(contributions ...Contribution) (map[string]dotfile.Dotfile, error) {
	logger := logging.GetLogger("engine.merge")
	done := logging.LogOperationStart(logger, "merge")
	defer done()

	result := make(map[string]dotfile.Dotfile)
	for i, contribution := range contributions {
		for path, decl := range contribution {
			existing, ok := result[path]
			if !ok {
				result[path] = decl
				continue
			}

			merged, err := existing.Merge(decl)
			if err != nil {
				logger.Debug().
					Str("path", path).
					Int("contribution", i).
					Err(err).
					Msg("Merge conflict")
				return nil, errors.Wrapf(err, errors.ErrMergeConflict, "conflicting declarations for %s", path).
					WithDetail(errors.DetailPath, path).
					WithDetail(errors.DetailReason, errors.GetErrorDetails(err)[errors.DetailReason])
			}
			result[path] = merged
		}
	}

	logger.Debug().
		Int("contributions", len(contributions)).
		Int("paths", len(result)).
		Msg("Merged contributions")
	return result, nil
}
