package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camctl/camctl/internal/logging"
	"github.com/camctl/camctl/internal/updater"
)

// repositorySlug is the GitHub repository releases are pulled from.
const repositorySlug = "camctl/camctl"

// CreateUpdateCmd creates the update command.
func CreateUpdateCmd() *cobra.Command {
	var logLevel string
	var checkOnly bool
	var prerelease bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update camctl to the latest release",
		Long:  `Checks GitHub releases for a newer build and replaces the running binary in place.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			u, err := updater.New(repositorySlug, prerelease)
			if err != nil {
				logger.Error("Update unavailable", "error", err)
				os.Exit(1)
			}

			info, err := u.Check(cmd.Context())
			if err != nil {
				logger.Error("Update check failed", "error", err)
				os.Exit(1)
			}

			if !info.UpdateAvailable {
				fmt.Printf("already up to date (%s)\n", info.CurrentVersion)
				return
			}

			fmt.Printf("update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			if checkOnly {
				return
			}

			if err := u.Apply(cmd.Context()); err != nil {
				logger.Error("Update failed", "error", err)
				os.Exit(1)
			}
			fmt.Printf("updated to %s\n", info.LatestVersion)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for an update, do not apply it")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Consider prerelease versions")
	return cmd
}
