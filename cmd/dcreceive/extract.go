package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/core"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
	"github.com/joseph-ayodele/dc-receiving/internal/export"
	"github.com/joseph-ayodele/dc-receiving/internal/report"
)

type extractOpts struct {
	out     string
	formats []string
	summary bool
	rawText bool
}

func newExtractCmd(a *app) *cobra.Command {
	o := &extractOpts{}
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract one manifest (PDF or text; stdin when file is - or omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, o, args)
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write export artifacts into this directory")
	cmd.Flags().StringSliceVar(&o.formats, "formats", nil, "artifacts to write with --out: csv, xlsx, json")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "print a text summary instead of the JSON report")
	cmd.Flags().BoolVar(&o.rawText, "raw", false, "include the raw document lines in the JSON report")
	return cmd
}

func runExtract(cmd *cobra.Command, a *app, o *extractOpts, args []string) error {
	ctx := cmd.Context()
	proc := a.processor()

	var (
		out core.Outcome
		err error
	)
	if len(args) == 0 || args[0] == "-" {
		data, rerr := io.ReadAll(cmd.InOrStdin())
		if rerr != nil {
			return fmt.Errorf("read stdin: %w", rerr)
		}
		out, err = proc.ProcessText(ctx, "stdin", entity.SplitLines(string(data)))
	} else {
		out, err = proc.ProcessFile(ctx, args[0])
	}
	if err != nil {
		return err
	}
	res := out.Result

	w := cmd.OutOrStdout()
	if o.summary {
		printSummary(w, res)
	} else if err := report.Encode(w, res, report.EncodeOptions{Indent: true, IncludeRawText: o.rawText}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if o.out != "" {
		files, err := export.NewService(a.logger).WriteAll(o.out, res, a.formats(cmd, o.formats))
		if err != nil {
			return err
		}
		for _, f := range files {
			a.logger.Info("extract.artifact", zap.String("file", f))
		}
	}

	if !res.Succeeded() {
		return &exitError{code: exitCodeFailed, err: res.Err()}
	}
	return nil
}

func printSummary(w io.Writer, res entity.ExtractionResult) {
	h := res.Header
	fmt.Fprintf(w, "Status:      %s\n", res.Status)
	fmt.Fprintf(w, "Manifest:    %s\n", entity.StrOrEmpty(h.ManifestNumber))
	fmt.Fprintf(w, "Origin:      %s\n", entity.StrOrEmpty(h.Origin))
	fmt.Fprintf(w, "Destination: %s\n", entity.StrOrEmpty(h.Destination))
	fmt.Fprintln(w, res.Summary().String())
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "  %s\n", d)
	}
}
