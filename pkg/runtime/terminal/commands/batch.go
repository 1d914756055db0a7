package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/batch"
	"github.com/de-tools/vehicle-atlas/pkg/services/report"
	"github.com/de-tools/vehicle-atlas/pkg/store/artifact"
)

type BatchCmd struct {
	dir      string
	outDir   string
	format   string
	workers  int
	premium  bool
	pkg      string
	publish  bool
	failFast bool
	load     Loader
}

func NewBatchCmd(load Loader) *cobra.Command {
	bc := &BatchCmd{load: load}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render every payload in a directory",
		Long: "Render every *.json payload in a directory. The file name, without extension, " +
			"is used as the registration.",
		RunE: bc.run,
	}

	cmd.Flags().StringVar(&bc.dir, "dir", "", "Directory of payload JSON files")
	cmd.Flags().StringVar(&bc.outDir, "out", "", "Directory for rendered reports")
	cmd.Flags().StringVar(&bc.format, "format", "pdf", "Output format (pdf, html or text)")
	cmd.Flags().IntVar(&bc.workers, "workers", 4, "Number of concurrent renders")
	cmd.Flags().BoolVar(&bc.premium, "premium", false, "Render every section")
	cmd.Flags().StringVar(&bc.pkg, "package", "", "Package whose sections are included")
	cmd.Flags().BoolVar(&bc.publish, "publish", false, "Also publish reports to the configured artifact store")
	cmd.Flags().BoolVar(&bc.failFast, "fail-fast", false, "Stop after the first failed render")

	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (bc *BatchCmd) jobs() ([]batch.Job, error) {
	paths, err := filepath.Glob(filepath.Join(bc.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no payloads found in %s", bc.dir)
	}
	slices.Sort(paths)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	jobs := make([]batch.Job, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		jobs = append(jobs, batch.Job{
			Name:    name,
			Payload: data,
			Context: domain.RenderContext{
				Registration: strings.ToUpper(name),
				DateOfCheck:  today,
				Premium:      bc.premium,
				Package:      bc.pkg,
			},
		})
	}
	return jobs, nil
}

func (bc *BatchCmd) run(cmd *cobra.Command, _ []string) error {
	jobs, err := bc.jobs()
	if err != nil {
		return err
	}
	rt, err := bc.load(cmd)
	if err != nil {
		return err
	}
	if bc.publish && rt.Store == nil {
		return fmt.Errorf("--publish requires artifacts.backend to be configured")
	}
	if err := os.MkdirAll(bc.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	sink := func(ctx context.Context, job batch.Job, art report.Artifact) (string, error) {
		path := filepath.Join(bc.outDir, job.Name+"."+art.Extension)
		if err := os.WriteFile(path, art.Body, 0o644); err != nil {
			return "", fmt.Errorf("failed to write report: %w", err)
		}
		if !bc.publish {
			return path, nil
		}
		return rt.Store.Put(ctx, artifact.Key(job.Context, art.Extension), art.ContentType, art.Body)
	}

	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)
	runner := batch.NewRunner(rt.Service, sink, batch.RunnerConfig{
		Format:   bc.format,
		Workers:  bc.workers,
		FailFast: bc.failFast,
	}, jobs)
	go func() {
		for p := range runner.Progress() {
			logger.Debug().Int("processed", p.Processed).Int("total", p.Total).Str("job", p.LastJob).Msg("batch progress")
		}
	}()

	results, runErr := runner.Run(ctx)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Payload", "Format", "Status", "Location"})
	failed := 0
	for _, res := range results {
		status := "ok"
		switch {
		case res.Err != nil:
			status = res.Err.Error()
			failed++
		case res.Fallback:
			status = "fallback"
		}
		t.AppendRow(table.Row{res.Job, res.Format, status, res.Location})
	}
	t.Render()

	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(results))
	}
	return nil
}
