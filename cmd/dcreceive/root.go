package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/common"
	"github.com/joseph-ayodele/dc-receiving/internal/core"
	"github.com/joseph-ayodele/dc-receiving/internal/core/pipeline"
	"github.com/joseph-ayodele/dc-receiving/internal/core/textsource"
)

// exitCodeFailed is returned when at least one manifest yielded no packages.
const exitCodeFailed = 3

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type app struct {
	cfgFile            string
	requireDestination bool
	verbose            bool

	cfg    *common.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "dcreceive",
		Short: "Extract package lists from Metrc transfer manifests",
		Long: `dcreceive reads Metrc transfer manifests (PDF or text), extracts the
manifest header and package line-items, and writes receiving artifacts:
a package CSV, a receiving workbook and a JSON report.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path (YAML)")
	root.PersistentFlags().BoolVar(&a.requireDestination, "require-destination", false, "warn when the destination is missing")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newExtractCmd(a), newBatchCmd(a), newWatchCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := common.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("require-destination") {
		cfg.Extract.RequireDestination = a.requireDestination
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := common.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) processor() *core.Processor {
	src := textsource.New(textsource.Config{Pdftotext: a.cfg.Extract.PdftotextBin}, a.logger)
	p := pipeline.New(pipeline.Options{RequireDestination: a.cfg.Extract.RequireDestination})
	return core.NewProcessor(a.logger, src, p, a.cfg.Extract.ProcessTimeout)
}

// formats returns the --formats flag when set, the configured list otherwise.
func (a *app) formats(cmd *cobra.Command, flag []string) []string {
	if cmd.Flags().Changed("formats") {
		return flag
	}
	return a.cfg.Export.Formats
}

// outputDir is the per-manifest directory under out, named after the input file.
func outputDir(out, path string) string {
	base := filepath.Base(path)
	return filepath.Join(out, strings.TrimSuffix(base, filepath.Ext(base)))
}
