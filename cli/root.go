// Package cli holds the votecatalog command line: the HTTP service and the
// offline catalog and rule book tools.
package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tung362/votecatalog/api"
	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
)

var configFile string

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "votecatalog",
		Short: "Vote catalog registry and rule state sync service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(newServeCommand(), newCatalogCommand(), newDecodeCommand())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./")
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		logging.Logger().Warn("CLI: no config file found, using defaults")
	}
	logging.SetLevel(viper.GetString("logging.level"))
	return nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (locally with APP_ENV=local, otherwise as a lambda)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			api.NewServer(api.ReadConfig(), lobby.ReferenceHost).Start()
		},
	}
}

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the committed catalog with extension manifests applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := api.NewServer(api.ReadConfig(), lobby.ReferenceHost).BuildLobby()
			if err != nil {
				return err
			}
			printCatalog(cmd, l)
			return nil
		},
	}
}

func printCatalog(cmd *cobra.Command, l *lobby.Context) {
	out := cmd.OutOrStdout()
	categories := append([]*catalog.Category(nil), l.Catalog().Categories()...)
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Position < categories[j].Position
	})
	for _, category := range categories {
		fmt.Fprintf(out, "%s (position %d)\n", category.DisplayName, category.Position)
		for _, s := range category.Children {
			fmt.Fprintf(out, "  [%d] %s\n", s.GlobalIndex, s.GlobalName)
			for _, c := range s.Choices {
				marker := " "
				if c.LocalIndex == s.DefaultChoiceIndex {
					marker = "*"
				}
				fmt.Fprintf(out, "    %s[%d] %s", marker, c.GlobalIndex, c.LocalName)
				if c.PollKey != "" {
					fmt.Fprintf(out, " -> %s bit %d", c.PollKey, c.VoteBit)
				}
				fmt.Fprintln(out)
			}
		}
	}
	fmt.Fprintf(out, "%d selections (%d host), %d choices (%d host)\n",
		l.Catalog().SelectionCount(), l.Registry().HostSelectionCount(),
		l.Catalog().ChoiceCount(), l.Registry().HostChoiceCount())
}
