package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/app"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	assumeYes  bool
	verbose    bool
	exitCode   int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(app.ExitUsage)
	}
	stop()
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:   "artifact_optimizer [catalog]",
	Short: "Find the highest scoring artifact build by exhaustive search",
	Long: `artifact_optimizer loads an artifact catalog (text, GOOD json, xlsx or
sqlite, or an Enka profile when --uid is set), scores every combination of
one flower, plume, sands, goblet and circlet, and prints the best one.

Enka reports artifact sets as name hashes. Map them to set keys with the
enka_set_names table in optimizer_config.yaml; unmapped hashes are used as
set keys and reported once each. A relative catalog path in the config file
is read relative to that file.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.Options{
			ConfigPath: configPath,
			Flags:      cmd.Flags(),
			AssumeYes:  assumeYes,
			Verbose:    verbose,
		}
		if len(args) == 1 {
			opts.Catalog = args[0]
		}
		exitCode = app.RunWithOptions(cmd.Context(), opts)
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <source> <dest>",
	Short: "Rewrite a catalog as .xlsx or .db",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exitCode = app.Convert(cmd.Context(), app.ConvertOptions{
			Source:  args[0],
			Dest:    args[1],
			Verbose: verbose,
		})
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("artifact_optimizer " + version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+config.FileName+" in this or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	f := rootCmd.Flags()
	f.String(config.KeyCatalog, "", "catalog path (.txt, .json, .xlsx, .db), relative to the working directory")
	f.StringP(config.KeyStrategy, "s", "", "iterative, recursive, cartesian or all")
	f.BoolVarP(&assumeYes, "yes", "y", false, "start the search without asking")
	f.String(config.KeyUID, "", "load the catalog from this Enka UID instead of a file; set hashes missing from enka_set_names are kept as set keys")
	f.String(config.KeyChar, "", "character name for the gcsim stat lines")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
}
