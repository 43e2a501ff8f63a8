package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

// checkResult is the outcome of resolving one application
type checkResult struct {
	App        domain.Application
	Resolution *domain.Resolution
	Err        error
}

var checkCmd = &cobra.Command{
	Use:   "check [app...]",
	Short: "Resolve the latest version of applications without downloading",
	Long: `Resolve download links and versions. Without arguments the applications
selected by default are checked; --all checks the whole catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(false)
		if err != nil {
			return err
		}
		defer env.close()

		all, _ := cmd.Flags().GetBool("all")
		apps, err := selectApps(env.services.Catalog, args, all)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results := make([]checkResult, len(apps))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(env.config.Resolve.Workers)
		for i, application := range apps {
			i, application := i, application
			g.Go(func() error {
				res, err := env.services.DownloadMgr.ResolveApp(gctx, application)
				results[i] = checkResult{App: application, Resolution: res, Err: err}
				if errors.Is(err, domain.ErrUnknownStrategy) {
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		renderCheck(os.Stdout, results)
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolP("all", "a", false, "Check every application in the catalog")
}

// selectApps resolves command arguments to catalog entries in catalog order
func selectApps(catalog *domain.Catalog, names []string, all bool) ([]domain.Application, error) {
	switch {
	case all:
		return catalog.Apps(), nil
	case len(names) > 0:
		return catalog.Select(names)
	}

	apps := catalog.Checked()
	if len(apps) == 0 {
		return nil, domain.ErrEmptySelection
	}
	return apps, nil
}
