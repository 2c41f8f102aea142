package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/camctl/camctl/internal/devices"
	"github.com/camctl/camctl/internal/logging"
	"github.com/camctl/camctl/pkg/v4l2"
)

// resolveControl maps a control reference to its id. Numeric references
// (decimal or hex) are used directly; anything else is matched against
// the device's control names, case-insensitively.
func resolveControl(store devices.Store, device, ref string) (uint32, error) {
	if id, err := strconv.ParseUint(ref, 0, 32); err == nil {
		return uint32(id), nil
	}

	controls, err := store.Controls(device)
	if err != nil {
		return 0, err
	}
	for _, c := range controls {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("no control named %q on %s", ref, device)
}

// CreateGetCmd creates the get command.
func CreateGetCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "get [device] [control]",
		Short: "Read a control value",
		Long:  `Reads the current value of a scalar control. Controls are referenced by id (decimal or 0x hex) or by name.`,
		Args:  cobra.ExactArgs(2),
		Run: func(_ *cobra.Command, args []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			store := devices.NewStore(nil)
			id, err := resolveControl(store, args[0], args[1])
			if err != nil {
				logger.Error("Unknown control", "error", err)
				os.Exit(1)
			}
			value, err := store.GetControl(args[0], id)
			if err != nil {
				logger.Error("Failed to read control", "device", args[0], "error", err)
				os.Exit(1)
			}

			fmt.Println(value)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	return cmd
}

// CreateSetCmd creates the set command.
func CreateSetCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "set [device] [control] [value]",
		Short: "Write a control value",
		Long:  `Writes a scalar control value. Controls are referenced by id or name; the driver validates range and applicability.`,
		Args:  cobra.ExactArgs(3),
		Run: func(_ *cobra.Command, args []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			store := devices.NewStore(nil)
			id, err := resolveControl(store, args[0], args[1])
			if err != nil {
				logger.Error("Unknown control", "error", err)
				os.Exit(1)
			}

			value, err := strconv.ParseInt(args[2], 0, 32)
			if err != nil {
				logger.Error("Invalid control value", "value", args[2], "error", err)
				os.Exit(1)
			}
			if err := store.SetControl(args[0], id, v4l2.IntValue(int32(value))); err != nil {
				logger.Error("Failed to write control", "device", args[0], "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	return cmd
}

// CreateWaitCmd creates the wait command.
func CreateWaitCmd() *cobra.Command {
	var logLevel string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait [device]",
		Short: "Wait until a device is readable",
		Long: `Polls the device until it reports readable data or the timeout elapses. ` +
			`Exit code 0 means readable, 2 means timeout, 1 means the poll failed or the device reported an error condition.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			path, err := v4l2.ResolvePath(args[0])
			if err != nil {
				logger.Error("Unknown device", "device", args[0], "error", err)
				os.Exit(1)
			}

			dev, err := v4l2.OpenPathFlags(path, v4l2.Nonblocking)
			if err != nil {
				logger.Error("Failed to open device", "path", path, "error", err)
				os.Exit(1)
			}
			defer dev.Close()

			err = dev.Wait(timeout)
			switch {
			case err == nil:
				fmt.Println("readable")
			case errors.Is(err, v4l2.ErrTimeout):
				fmt.Println("timeout")
				os.Exit(2)
			default:
				logger.Error("Wait failed", "path", path, "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Poll timeout; negative waits indefinitely")
	return cmd
}

// CreateReadCmd creates the read command.
func CreateReadCmd() *cobra.Command {
	var logLevel string
	var count int64
	var output string

	cmd := &cobra.Command{
		Use:   "read [device]",
		Short: "Read raw bytes from a device",
		Long: `Reads the device's byte stream and writes it to stdout or a file. ` +
			`Only meaningful for drivers that support read I/O.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			initCLILogging(logLevel)
			logger := logging.GetLogger("cli")

			path, err := v4l2.ResolvePath(args[0])
			if err != nil {
				logger.Error("Unknown device", "device", args[0], "error", err)
				os.Exit(1)
			}

			dev, err := v4l2.OpenPath(path)
			if err != nil {
				logger.Error("Failed to open device", "path", path, "error", err)
				os.Exit(1)
			}
			defer dev.Close()

			var out io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					logger.Error("Failed to create output file", "path", output, "error", err)
					os.Exit(1)
				}
				defer f.Close()
				out = f
			}

			buf := make([]byte, 64*1024)
			var total int64
			for count < 0 || total < count {
				want := int64(len(buf))
				if count >= 0 && count-total < want {
					want = count - total
				}
				n, err := dev.Read(buf[:want])
				if err != nil {
					logger.Error("Read failed", "path", path, "error", err)
					os.Exit(1)
				}
				if n == 0 {
					break
				}
				if _, err := out.Write(buf[:n]); err != nil {
					logger.Error("Write failed", "error", err)
					os.Exit(1)
				}
				total += int64(n)
			}
			logger.Info("Read complete", "bytes", total)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	cmd.Flags().Int64Var(&count, "count", -1, "Number of bytes to read; negative reads until EOF")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
