package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/insights-cli/internal/connector"
)

var (
	sourcesUser  string
	sourcesQuery string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered sources and their connection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		listed := env.Registry.List()
		if sourcesUser != "" {
			connected, err := env.Registry.ConnectedPlatforms(ctx, sourcesUser)
			if err != nil {
				return eris.Wrap(err, "discover connected platforms")
			}
			if strings.TrimSpace(sourcesQuery) != "" {
				connected = env.Registry.SelectRelevant(sourcesQuery, connected)
			}
			listed = connected
		}

		printSources(listed)
		return nil
	},
}

func printSources(connectors []connector.Connector) {
	fmt.Printf("%-20s %-20s %-12s %s\n", "ID", "NAME", "TYPE", "METRICS")
	for _, c := range connectors {
		info := c.Info()
		fmt.Printf("%-20s %-20s %-12s %s\n",
			info.ID, info.Name, info.Type, strings.Join(c.SupportedMetrics(), ","))
	}
}

func init() {
	sourcesCmd.Flags().StringVar(&sourcesUser, "user", "", "restrict to sources this user has connected")
	sourcesCmd.Flags().StringVar(&sourcesQuery, "query", "", "rank connected sources against a free-text query")
	rootCmd.AddCommand(sourcesCmd)
}
