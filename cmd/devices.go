// Package cmd holds the cobra subcommands of the camctl binary.
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/camctl/camctl/internal/devices"
	"github.com/camctl/camctl/internal/logging"
)

// initCLILogging sets up minimal logging for one-shot commands. Command
// output goes to stdout via fmt, diagnostics go through the logger.
func initCLILogging(level string) {
	logging.Initialize(logging.Config{
		Level:  level,
		Format: "text",
	})
}

// CreateListCmd creates the list command.
func CreateListCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List capture devices",
		Long:  `Discovers all V4L2 capture devices and prints their paths, names and stable identifiers.`,
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			store := devices.NewStore(nil)
			list, err := store.List()
			if err != nil {
				logger.Error("Failed to enumerate devices", "error", err)
				os.Exit(1)
			}

			if len(list) == 0 {
				fmt.Println("no capture devices found")
				return
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tID")
			for _, dev := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", dev.DevicePath, dev.DeviceName, dev.DeviceID)
			}
			w.Flush()
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	return cmd
}

// CreateInfoCmd creates the info command.
func CreateInfoCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "info [device]",
		Short: "Show device capabilities",
		Long: `Queries driver identity and capability flags for a device. ` +
			`The device may be given as a path (/dev/video0), an index (0) or a stable identifier.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			store := devices.NewStore(nil)
			caps, err := store.Capabilities(args[0])
			if err != nil {
				logger.Error("Failed to query device", "device", args[0], "error", err)
				os.Exit(1)
			}

			fmt.Printf("Driver:       %s\n", caps.Driver)
			fmt.Printf("Card:         %s\n", caps.Card)
			fmt.Printf("Bus info:     %s\n", caps.BusInfo)
			fmt.Printf("Version:      %s\n", caps.Version)
			fmt.Printf("Capabilities: %s\n", caps.Capabilities)
			fmt.Printf("Device caps:  %s\n", caps.Effective())
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	return cmd
}

// CreateControlsCmd creates the controls command.
func CreateControlsCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "controls [device]",
		Short: "List device controls",
		Long:  `Enumerates all user controls of a device, including the items of menu controls.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			store := devices.NewStore(nil)
			controls, err := store.Controls(args[0])
			if err != nil {
				logger.Error("Failed to enumerate controls", "device", args[0], "error", err)
				os.Exit(1)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tMIN\tMAX\tSTEP\tDEFAULT")
			for _, c := range controls {
				fmt.Fprintf(w, "%#x\t%s\t%s\t%d\t%d\t%d\t%d\n",
					c.ID, c.Name, c.Type, c.Min, c.Max, c.Step, c.Default)
				for _, item := range c.Items {
					fmt.Fprintf(w, "\t  %s\t\t\t\t\t\n", item)
				}
			}
			w.Flush()
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	return cmd
}
