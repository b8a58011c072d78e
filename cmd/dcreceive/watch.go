package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/core"
	"github.com/joseph-ayodele/dc-receiving/internal/core/async"
	"github.com/joseph-ayodele/dc-receiving/internal/export"
	"github.com/joseph-ayodele/dc-receiving/internal/ingest"
)

const drainTimeout = 30 * time.Second

type watchOpts struct {
	inbox   string
	outbox  string
	formats []string
}

func newWatchCmd(a *app) *cobra.Command {
	o := &watchOpts{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process manifests dropped into an inbox directory until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, a, o)
		},
	}
	cmd.Flags().StringVar(&o.inbox, "inbox", "", "directory to watch (default: configured inbox)")
	cmd.Flags().StringVar(&o.outbox, "outbox", "", "directory for artifacts (default: configured outbox)")
	cmd.Flags().StringSliceVar(&o.formats, "formats", nil, "artifacts to write: csv, xlsx, json")
	return cmd
}

func runWatch(cmd *cobra.Command, a *app, o *watchOpts) error {
	ctx := cmd.Context()
	inbox, outbox := o.inbox, o.outbox
	if inbox == "" {
		inbox = a.cfg.Watch.Inbox
	}
	if outbox == "" {
		outbox = a.cfg.Watch.Outbox
	}
	formats := a.formats(cmd, o.formats)
	logger := a.logger
	exports := export.NewService(logger)

	q := async.NewProcessorQueue(a.processor(), logger,
		async.WithWorkers(a.cfg.Watch.Workers),
		async.WithQueueSize(a.cfg.Watch.QueueSize),
		async.WithProcessTimeout(a.cfg.Extract.ProcessTimeout),
		async.WithResultHandler(func(job async.Job, out core.Outcome, err error) {
			if err != nil {
				return
			}
			files, werr := exports.WriteAll(outputDir(outbox, job.Path), out.Result, formats)
			if werr != nil {
				logger.Error("watch.export.failed", zap.String("trace_id", job.TraceID), zap.String("path", job.Path), zap.Error(werr))
				return
			}
			logger.Info("watch.export.ok", zap.String("trace_id", job.TraceID), zap.String("path", job.Path), zap.Strings("files", files))
		}),
	)

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{inbox},
		Exclude:     []string{outbox},
		InitialScan: a.cfg.Watch.InitialScan,
		Debounce:    a.cfg.Watch.Debounce,
	}, logger)
	if err != nil {
		q.Shutdown(context.Background())
		return fmt.Errorf("start watcher: %w", err)
	}
	logger.Info("watch.started", zap.String("inbox", inbox), zap.String("outbox", outbox), zap.Strings("formats", formats))

	seen := ingest.NewDeduper()
	for paths != nil || errs != nil {
		select {
		case path, ok := <-paths:
			if !ok {
				paths = nil
				continue
			}
			mf, err := ingest.HashFile(path)
			if err != nil {
				logger.Warn("watch.hash.failed", zap.String("path", path), zap.Error(err))
				continue
			}
			if first, fresh := seen.Mark(mf.HashHex, path); !fresh {
				logger.Info("watch.duplicate", zap.String("path", path), zap.String("first", first))
				continue
			}
			if err := q.Enqueue(ctx, async.Job{Path: path, TraceID: uuid.NewString()}); err != nil {
				logger.Warn("watch.enqueue.failed", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch.error", zap.Error(err))
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	q.Shutdown(drainCtx)
	logger.Info("watch.stopped")
	return nil
}
