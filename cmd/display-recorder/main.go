package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-displays/internal/collector"
	"github.com/go-tangra/go-tangra-displays/internal/config"
	"github.com/go-tangra/go-tangra-displays/internal/convert"
	"github.com/go-tangra/go-tangra-displays/internal/logger"
	"github.com/go-tangra/go-tangra-displays/internal/recorder"
	"github.com/go-tangra/go-tangra-displays/internal/render"
	"github.com/go-tangra/go-tangra-displays/internal/store"
	"github.com/go-tangra/go-tangra-displays/internal/winsvc"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

const serviceName = "TangraDisplayRecorder"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "display-recorder",
	Short: "Display Recorder - records display snapshots into a local SQLite history",
	Long: `Display Recorder periodically enumerates the displays attached to this
host and stores each snapshot in a local SQLite database, so that monitor
changes can be traced over time.

Run without a subcommand to start the recorder (equivalent to 'serve').`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recorder",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "display-recorder %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored snapshots, or the sightings of one display with --device-path",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Show a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge snapshots older than the specified number of days",
	RunE:  runPurge,
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage Windows service installation",
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install as a Windows service",
	RunE:  runServiceInstall,
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the Windows service",
	RunE:  runServiceUninstall,
}

var (
	purgeDays      int
	historyHost    string
	historyDevice  string
	historyLimit   int
	outputFormat   string
	snapshotLatest bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./displays.yaml)")
	rootCmd.PersistentFlags().String("database", "", "SQLite database path (default displays.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().Duration("interval", 0, "snapshot interval (default 15m)")
		c.Flags().Int("retention-days", -1, "keep snapshots this many days, 0 keeps forever (default 30)")
		c.Flags().Bool("physical", false, "record only physical displays")
	}

	historyCmd.Flags().StringVar(&historyHost, "hostname", "", "only snapshots of this host")
	historyCmd.Flags().StringVar(&historyDevice, "device-path", "", "list the snapshots this display device appeared in")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum number of rows")
	historyCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: table, json, yaml")

	showCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: table, json, yaml")
	showCmd.Flags().BoolVar(&snapshotLatest, "latest", false, "treat the argument as a hostname and show its latest snapshot")

	purgeCmd.Flags().IntVar(&purgeDays, "days", 30, "purge snapshots older than this many days")

	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(serviceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies the flags shared by every
// command.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		cfg.DatabasePath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetDuration("interval"); v > 0 {
		cfg.Interval = v
	}
	if v, err := cmd.Flags().GetInt("retention-days"); err == nil && v >= 0 {
		cfg.RetentionDays = v
	}
	if v, _ := cmd.Flags().GetBool("physical"); v {
		cfg.IncludePhysical = true
	}
	if outputFormat != "" {
		cfg.OutputFormat = outputFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Windows service mode.
	if winsvc.IsWindowsService() {
		winsvc.SetupEventLog(serviceName)
		return winsvc.RunService(serviceName, func(ctx context.Context) error {
			return serve(ctx, cfg)
		})
	}

	// Interactive mode: shut down on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg)
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	logger.Info("Display recorder starting",
		"version", version,
		"database", cfg.DatabasePath,
		"interval", cfg.Interval,
		"retention_days", cfg.RetentionDays,
		"physical", cfg.IncludePhysical,
	)

	r := recorder.New(recorder.Config{
		Interval:        cfg.Interval,
		RetentionDays:   cfg.RetentionDays,
		PurgeInterval:   cfg.PurgeInterval,
		IncludePhysical: cfg.IncludePhysical,
	}, collector.New(), db)
	return r.Run(ctx)
}

func openStore(cmd *cobra.Command) (*config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if historyDevice != "" {
		sightings, err := db.DeviceHistory(ctx, historyDevice, historyHost, historyLimit)
		if err != nil {
			return err
		}
		list := make(convert.SightingList, len(sightings))
		for i := range sightings {
			list[i] = convert.StoreSightingToSighting(&sightings[i])
		}
		return render.Write(cmd.OutOrStdout(), cfg.OutputFormat, list)
	}

	records, total, err := db.List(ctx, store.ListFilter{Hostname: historyHost, PageSize: historyLimit})
	if err != nil {
		return err
	}
	list := make(convert.SummaryList, len(records))
	for i := range records {
		list[i] = convert.RecordToSummary(&records[i])
	}
	if err := render.Write(cmd.OutOrStdout(), cfg.OutputFormat, list); err != nil {
		return err
	}
	if total > len(records) {
		logger.Info("More snapshots are stored", "shown", len(records), "total", total)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	var rec *store.SnapshotRecord
	if snapshotLatest {
		rec, err = db.Latest(cmd.Context(), args[0])
	} else {
		rec, err = db.Get(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", args[0], err)
	}

	inv, err := convert.RecordToInventory(rec)
	if err != nil {
		return err
	}

	var out any = inv
	if cfg.OutputFormat == render.FormatTable {
		out = convert.InventoryView{Inventory: inv}
	}
	return render.Write(cmd.OutOrStdout(), cfg.OutputFormat, out)
}

func runServiceInstall(cmd *cobra.Command, _ []string) error {
	exePath, err := winsvc.ExePath()
	if err != nil {
		return err
	}

	svcArgs := []string{"serve"}
	if cfgFile != "" {
		svcArgs = append(svcArgs, "--config", cfgFile)
	}
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		svcArgs = append(svcArgs, "--database", v)
	}

	if err := winsvc.Install(winsvc.Service{
		Name:        serviceName,
		DisplayName: "Tangra Display Recorder",
		Description: "Records snapshots of the displays attached to this host.",
		Args:        svcArgs,
	}, exePath); err != nil {
		return err
	}

	logger.Info("Service installed", "service", serviceName)
	return nil
}

func runServiceUninstall(_ *cobra.Command, _ []string) error {
	if err := winsvc.Uninstall(serviceName); err != nil {
		return err
	}
	logger.Info("Service uninstalled", "service", serviceName)
	return nil
}

func runPurge(cmd *cobra.Command, _ []string) error {
	_, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Purge(cmd.Context(), time.Duration(purgeDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d snapshots older than %d days\n", n, purgeDays)
	return nil
}
