package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/export"
	"github.com/joseph-ayodele/dc-receiving/internal/ingest"
)

type batchOpts struct {
	out     string
	workers int
	formats []string
}

func newBatchCmd(a *app) *cobra.Command {
	o := &batchOpts{}
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Extract every manifest under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, a, o, args[0])
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "output directory (default: configured outbox)")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "files processed in parallel (default: configured workers)")
	cmd.Flags().StringSliceVar(&o.formats, "formats", nil, "artifacts to write: csv, xlsx, json")
	return cmd
}

func runBatch(cmd *cobra.Command, a *app, o *batchOpts, dir string) error {
	ctx := cmd.Context()
	out := o.out
	if out == "" {
		out = a.cfg.Watch.Outbox
	}
	workers := o.workers
	if workers <= 0 {
		workers = a.cfg.Watch.Workers
	}
	formats := a.formats(cmd, o.formats)

	files, stats, err := ingest.ListManifests(ctx, dir, true)
	if err != nil {
		return err
	}
	a.logger.Info("batch.scan.done",
		zap.String("dir", dir),
		zap.Uint32("scanned", stats.Scanned),
		zap.Uint32("matched", stats.Matched),
		zap.Uint32("duplicates", stats.Duplicates),
		zap.Uint32("failed", stats.Failed),
	)

	items, err := a.processor().RunBatch(ctx, ingest.Paths(files), workers)
	if err != nil {
		return err
	}

	exports := export.NewService(a.logger)
	w := cmd.OutOrStdout()
	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", it.Path, it.Err)
			continue
		}
		res := it.Outcome.Result
		if _, err := exports.WriteAll(outputDir(out, it.Path), res, formats); err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", it.Path, err)
			continue
		}
		if !res.Succeeded() {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", it.Path, res.Err())
			continue
		}
		fmt.Fprintf(w, "ok   %s manifest=%s packages=%d warnings=%d\n",
			it.Path, valueOr(res.Header.ManifestNumber, "-"), len(res.Packages), res.Warnings())
	}
	fmt.Fprintf(w, "%d file(s), %d failed\n", len(items), failed)

	if failed > 0 {
		return &exitError{code: exitCodeFailed, err: fmt.Errorf("%d of %d manifest(s) failed", failed, len(items))}
	}
	return nil
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
