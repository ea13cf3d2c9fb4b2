package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insights-cli/internal/connector"
	"github.com/sells-group/insights-cli/internal/model"
)

var seedUser string

// seedSources lists what gets provisioned for a demo user: every built-in
// source gets a credential and connection row, and the advertising sources
// get a snapshot seeded from the built-in fallback datasets.
var seedSources = []struct {
	id         string
	sourceType model.SourceType
}{
	{connector.SourceMetaAds, model.SourceTypeAdvertising},
	{connector.SourceGoogleAds, model.SourceTypeAdvertising},
	{connector.SourceGoogleAnalytics, model.SourceTypeAnalytics},
	{connector.SourceShopify, model.SourceTypeCommerce},
	{connector.SourceLinkedInAds, model.SourceTypeAdvertising},
	{connector.SourceMailchimp, model.SourceTypeEmail},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Provision demo credentials, connections, and snapshots for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		now := time.Now().UTC()
		fallback := connector.BuiltinFallback()

		var snaps []model.MetricSnapshot
		for _, src := range seedSources {
			if err := st.PutCredential(ctx, model.Credential{
				UserID:      seedUser,
				SourceID:    src.id,
				AccessToken: "demo-token-" + src.id,
				ExpiresAt:   now.AddDate(0, 1, 0),
			}); err != nil {
				return eris.Wrapf(err, "seed credential %s", src.id)
			}

			if err := st.PutConnection(ctx, model.SourceConnection{
				UserID:      seedUser,
				SourceID:    src.id,
				SourceType:  src.sourceType,
				Status:      model.ConnectionActive,
				ConnectedAt: now,
			}); err != nil {
				return eris.Wrapf(err, "seed connection %s", src.id)
			}

			snaps = append(snaps, model.MetricSnapshot{
				UserID:    seedUser,
				SourceID:  src.id,
				Payload:   fallback.Dataset(src.id),
				CreatedAt: now.Add(-2 * time.Hour),
			})
		}

		n, err := st.PutSnapshots(ctx, snaps)
		if err != nil {
			return eris.Wrap(err, "seed snapshots")
		}

		zap.L().Info("seeded demo data",
			zap.String("user", seedUser),
			zap.Int("sources", len(seedSources)),
			zap.Int64("snapshots", n),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedUser, "user", "demo", "user id to provision")
	rootCmd.AddCommand(seedCmd)
}
