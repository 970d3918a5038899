package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gosppt/domain/sppt"
	"gosppt/internal/config"
	"gosppt/internal/container"
	"gosppt/internal/logging"
	"gosppt/internal/report"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "sppt",
		Short:         "Spatial point pattern test: bootstrap interval overlap between point patterns",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the container.
func setup(ctx context.Context, withDatabase bool) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if withDatabase {
		if err := c.InitWithDatabase(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type runFlags struct {
	input        string
	group        string
	counts       []string
	newCols      []string
	b            int
	seed         int64
	confLevel    float64
	workers      int
	checkOverlap bool
	fixBase      bool
	absolute     bool
	export       string
	exportDir    string
	reportPath   string
	jsonOut      bool
	save         bool
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test on a CSV or XLSX table of per-unit counts",
		Long: `Run the spatial point pattern test on a table with one row per spatial unit.

The first --count column is the base; further columns are compared against it.
Without --check-overlap only the percentile intervals are computed.

Example: sppt run --input vancouver.csv --group DAUID --count TFV --count TOV --b 200 --seed 171717 --check-overlap`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), f.save)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())
			return runTest(cmd, c, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "Input table (.csv or .xlsx)")
	flags.StringVarP(&f.group, "group", "g", sppt.DefaultGroupCol, "Unit identifier column")
	flags.StringArrayVarP(&f.counts, "count", "c", nil, "Count column; repeat for [base, test, ...]")
	flags.StringArrayVar(&f.newCols, "new-col", nil, "Output prefix per count column")
	flags.IntVar(&f.b, "b", sppt.DefaultB, "Number of bootstrap draws")
	flags.Int64Var(&f.seed, "seed", 0, "Random seed (default: generated and reported)")
	flags.Float64Var(&f.confLevel, "conf-level", sppt.DefaultConfLevel, "Confidence level of the intervals")
	flags.IntVar(&f.workers, "workers", 0, "Parallel draws (default: GOMAXPROCS)")
	flags.BoolVar(&f.checkOverlap, "check-overlap", false, "Classify interval overlap and compute the S-Index")
	flags.BoolVar(&f.fixBase, "fix-base", false, "Treat the base column as exact; resample only test columns")
	flags.BoolVar(&f.absolute, "counts", false, "Compare absolute counts instead of percentages")
	flags.StringVar(&f.export, "export", "", "Export format: csv, txt, xlsx or json")
	flags.StringVar(&f.exportDir, "export-dir", "", "Export directory (default SPPT_EXPORT_DIR)")
	flags.StringVar(&f.reportPath, "report", "", "Write a report (.md or .html)")
	flags.BoolVar(&f.jsonOut, "json", false, "Print the full result as JSON")
	flags.BoolVar(&f.save, "save", false, "Store the result in DATABASE_URL")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("count")

	return cmd
}

// options merges the environment defaults with the flags the user set.
func (f runFlags) options(cmd *cobra.Command, defaults sppt.Options) sppt.Options {
	opts := defaults.Clone()
	opts.GroupCol = f.group
	opts.CountCols = f.counts
	opts.NewCols = f.newCols
	opts.CheckOverlap = f.checkOverlap
	opts.FixBase = f.fixBase

	flags := cmd.Flags()
	if flags.Changed("b") {
		opts.B = f.b
	}
	if flags.Changed("seed") {
		seed := f.seed
		opts.Seed = &seed
	}
	if flags.Changed("conf-level") {
		opts.ConfLevel = f.confLevel
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	if flags.Changed("counts") {
		opts.UsePercentages = !f.absolute
	}
	return opts
}

func runTest(cmd *cobra.Command, c *container.Container, f runFlags) error {
	ctx := cmd.Context()
	opts := f.options(cmd, c.Config.Options())
	if err := opts.Validate(); err != nil {
		return err
	}

	table, err := c.Reader.ReadTable(ctx, f.input, opts.GroupCol, opts.CountCols)
	if err != nil {
		return err
	}
	res, err := c.Engine.Run(ctx, table, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResult(out, res)
	}

	if f.save {
		if err := c.Results.Save(ctx, res); err != nil {
			return err
		}
		c.Logger.Info("result stored", zap.String("run_id", res.RunID.String()))
	}
	if f.export != "" {
		dir := f.exportDir
		if dir == "" {
			dir = c.Config.Export.Dir
		}
		path, err := c.Exporter.Export(ctx, res, dir, f.export)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Results exported: %s\n", path)
	}
	if f.reportPath != "" {
		if err := writeReport(f.reportPath, res); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written: %s\n", f.reportPath)
	}
	return nil
}

func printResult(w io.Writer, res *sppt.Result) {
	if res.HasIndices() {
		fmt.Fprint(w, res.Summary())
		return
	}
	fmt.Fprintf(w, "Run %s: %d units, B=%d, seed=%d\n", res.RunID, res.Metadata.TotalUnits, res.Metadata.B, res.Metadata.EffectiveSeed)
	for _, v := range res.Metadata.Variables {
		fmt.Fprintf(w, "  %-12s events: %-8d mean CI width: %.4f  max CI width: %.4f\n", v.Name, v.Events, v.MeanWidth, v.MaxWidth)
	}
}

func writeReport(path string, res *sppt.Result) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		page, err := report.HTML(res)
		if err != nil {
			return err
		}
		data = page
	default:
		data = []byte(report.Markdown(res))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())
			if port != "" {
				c.Config.Server.Port = port
			}
			return c.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default PORT or 8080)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sppt", version)
		},
	}
}
