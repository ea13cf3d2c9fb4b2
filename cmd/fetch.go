package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/render"
)

var (
	fetchUser      string
	fetchPlatforms []string
	fetchQuery     string
	fetchBridge    bool
	fetchNarrate   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch unified metrics for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var unified *model.UnifiedMetrics
		if fetchBridge {
			unified, err = env.Bridge.UnifiedPlatformData(ctx, fetchUser)
			if err != nil {
				return eris.Wrap(err, "bridge fetch")
			}
		} else {
			targets := fetchPlatforms
			if len(targets) == 0 && strings.TrimSpace(fetchQuery) != "" {
				connected, err := env.Registry.ConnectedPlatforms(ctx, fetchUser)
				if err != nil {
					return eris.Wrap(err, "discover connected platforms")
				}
				for _, c := range env.Registry.SelectRelevant(fetchQuery, connected) {
					targets = append(targets, c.Info().ID)
				}
			}
			unified, err = env.Registry.FetchUnified(ctx, fetchUser, targets...)
			if err != nil {
				return eris.Wrap(err, "unified fetch")
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(unified); err != nil {
			return eris.Wrap(err, "encode result")
		}

		if fetchNarrate && cfg.Registry.NarrationEnabled {
			fmt.Println(render.Narration(unified))
		}

		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchUser, "user", "", "user id (required)")
	fetchCmd.Flags().StringSliceVar(&fetchPlatforms, "platforms", nil, "explicit platform ids; defaults to the user's connected set")
	fetchCmd.Flags().StringVar(&fetchQuery, "query", "", "free-text query used to select relevant platforms")
	fetchCmd.Flags().BoolVar(&fetchBridge, "bridge", false, "serve from the persisted snapshot table instead of the connector registry")
	fetchCmd.Flags().BoolVar(&fetchNarrate, "narrate", false, "print the spoken summary after the JSON result")
	_ = fetchCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(fetchCmd)
}
