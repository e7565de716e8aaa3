package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-displays/internal/collector"
	"github.com/go-tangra/go-tangra-displays/internal/config"
	"github.com/go-tangra/go-tangra-displays/internal/convert"
	"github.com/go-tangra/go-tangra-displays/internal/display"
	"github.com/go-tangra/go-tangra-displays/internal/logger"
	"github.com/go-tangra/go-tangra-displays/internal/render"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var (
	cfgFile    string
	format     string
	outputFile string
	physical   bool
)

var rootCmd = &cobra.Command{
	Use:   "displays",
	Short: "List the displays attached to this Windows host",
	Long: `displays enumerates the active displays of the local desktop, classifies
each one as internal or external, and prints them as a table, JSON or YAML.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active displays",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Collect a full display inventory including host and EDID identity",
	Args:  cobra.NoArgs,
	RunE:  runInventory,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skips config loading.
	PersistentPreRun: func(*cobra.Command, []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "displays %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./displays.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")

	listCmd.Flags().BoolVar(&physical, "physical", false, "only physical displays, probing their control handles")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var cfg *config.Config

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if format != "" {
		cfg.OutputFormat = format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return logger.Init(cfg.LogLevel, cfg.LogFormat, nil)
}

func runList(cmd *cobra.Command, _ []string) error {
	var (
		displays []collector.DisplayInfo
		err      error
	)
	if physical {
		var inv *collector.Inventory
		inv, err = physicalListing(cmd.Context())
		if inv != nil {
			displays = inv.Displays
		}
	} else {
		var devices []display.Device
		devices, err = display.Partition(display.ListAllDisplays())
		displays = collector.FromDevices(devices)
	}

	if err != nil {
		if len(displays) == 0 {
			return err
		}
		logger.Warn("Some displays could not be listed", "err", err)
	}
	return write(cmd, convert.DisplayList(displays))
}

// physicalListing collects only the physical listing; host and identity
// lookups are left to the inventory command.
func physicalListing(ctx context.Context) (*collector.Inventory, error) {
	c := collector.New()
	c.Identities = skipIdentities{}
	c.System = skipSystem{}
	return c.CollectPhysical(ctx)
}

type skipIdentities struct{}

func (skipIdentities) MonitorIdentities(context.Context) ([]collector.MonitorIdentity, error) {
	return nil, nil
}

type skipSystem struct{}

func (skipSystem) SystemInfo(context.Context) (collector.SystemInfo, error) {
	return collector.SystemInfo{}, nil
}

func runInventory(cmd *cobra.Command, _ []string) error {
	inv, err := collector.New().Collect(cmd.Context())
	if err != nil {
		if len(inv.Displays) == 0 && errors.Is(err, display.ErrListingDisplaysFailed) {
			return err
		}
		logger.Warn("Inventory is partial", "err", err)
	}
	var out any = inv
	if cfg.OutputFormat == render.FormatTable {
		out = convert.InventoryView{Inventory: inv}
	}
	return write(cmd, out)
}

func write(cmd *cobra.Command, v any) error {
	var w io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := render.Write(w, cfg.OutputFormat, v); err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	if outputFile != "" {
		logger.Info("Output written", "path", outputFile)
	}
	return nil
}
