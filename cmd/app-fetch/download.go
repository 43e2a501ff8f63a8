package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

var downloadCmd = &cobra.Command{
	Use:   "download [app...]",
	Short: "Download the latest installers",
	Long: `Resolve and download applications one after another. Without arguments
the applications selected by default are downloaded; --all downloads the whole
catalog. Ctrl+C stops after the chunk being written; the partial file is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(true)
		if err != nil {
			return err
		}
		defer env.close()

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = env.config.Download.Dir
		}

		names := args
		if all, _ := cmd.Flags().GetBool("all"); all {
			names = nil
			for _, application := range env.services.Catalog.Apps() {
				names = append(names, application.Name)
			}
		}

		batchMgr := env.services.BatchMgr
		printer := newProgressPrinter(os.Stdout, env.services.Catalog, batchMgr)

		// Cancellation goes through the batch token, not the context, so the
		// in-flight chunk is always written before the transfer stops.
		if _, err := batchMgr.Start(context.Background(), dir, names, printer.Report); err != nil {
			return err
		}

		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupts)

		finished := make(chan struct{})
		go func() {
			batchMgr.Wait()
			close(finished)
		}()

		select {
		case <-finished:
		case <-interrupts:
			printer.Notice("Cancelling after the current chunk...")
			if err := batchMgr.Cancel(); err != nil {
				return err
			}
			<-finished
		}
		printer.Finish()

		batch, downloads, err := batchMgr.Current()
		if err != nil {
			return err
		}
		renderSummary(os.Stdout, downloads)

		if batch.Status == domain.BatchAborted {
			return fmt.Errorf("batch aborted: %s", batch.Error)
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringP("dir", "d", "", "Destination directory (default: download.dir from config)")
	downloadCmd.Flags().BoolP("all", "a", false, "Download every application in the catalog")
}
