package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/transfer"
	"github.com/maheshrc27/postflow/pkg/utils"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			return repository.Migrate(db, cfg.MigrationsPath, args[0])
		},
	}
}

func newScanCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one due post scan and publish inline",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			summary, err := newServices(cfg, db).scanner(cfg, nil).CheckScheduledPosts(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(transfer.ScanResponse{
				Success:        true,
				PostsProcessed: summary.PostsProcessed,
				Published:      summary.Published,
				Failed:         summary.Failed,
				Skipped:        summary.Skipped,
				Enqueued:       summary.Enqueued,
				TimeWindow: transfer.TimeWindow{
					Start: summary.Window.Start,
					End:   summary.Window.End,
				},
			})
		},
	}
}

func newPublishCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <post-id>",
		Short: "Publish a post immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || postID <= 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			svc := newServices(cfg, db)
			if err := svc.publishNow.PublishNow(cmd.Context(), postID); err != nil {
				return err
			}

			platforms, err := repository.NewPostPlatformRepository(db).ListByPostID(cmd.Context(), postID)
			if err != nil {
				return err
			}
			return printJSON(platforms)
		},
	}
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a SECRET_KEY and a CRON_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := utils.GenerateEncryptionKey()
			if err != nil {
				return err
			}
			cronSecret, err := utils.GenerateRandomKey(32)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "SECRET_KEY=%s\nCRON_SECRET=%s\n", secret, cronSecret)
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
