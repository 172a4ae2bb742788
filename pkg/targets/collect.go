package targets

import (
	"context"

	"github.com/dotboot/dotboot/pkg/dotfile"
	"github.com/dotboot/dotboot/pkg/engine"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// Collect computes the contribution of every target concurrently and merges
// them in the order given. The first failing target cancels the rest.
func Collect(ctx context.Context, env *Env, targets []Target) (map[string]dotfile.Dotfile, error) {
	logger := logging.GetLogger("targets.collect")
	done := logging.LogOperationStart(logger, "collect")
	defer done()

	contributions := make([]engine.Contribution, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			contribution, err := t.Dotfiles(env)
			if err != nil {
				return errors.Wrapf(err, errors.GetErrorCode(err), "target %s failed", t.Name()).
					WithDetail(errors.DetailTarget, t.Name())
			}
			logger.Debug().Str("target", t.Name()).Int("dotfiles", len(contribution)).Msg("Target collected")
			contributions[i] = contribution
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return engine.MergeDotfiles(contributions...)
}
