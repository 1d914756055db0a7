package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/store/artifact"
)

const dateLayout = "2006-01-02"

type RenderCmd struct {
	payloadPath  string
	format       string
	outPath      string
	registration string
	dateOfCheck  string
	reference    string
	premium      bool
	pkg          string
	logoPath     string
	images       map[string]string
	publish      bool
	load         Loader
}

func NewRenderCmd(load Loader) *cobra.Command {
	rc := &RenderCmd{load: load}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a report payload",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.payloadPath, "payload", "", "Path to the payload JSON file, - for stdin")
	cmd.Flags().StringVar(&rc.format, "format", "pdf", "Output format (pdf, html or text)")
	cmd.Flags().StringVar(&rc.outPath, "out", "", "Output file; stdout when empty")
	cmd.Flags().StringVar(&rc.registration, "registration", "", "Vehicle registration mark")
	cmd.Flags().StringVar(&rc.dateOfCheck, "date", "", "Date of check (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&rc.reference, "reference", "", "Report reference")
	cmd.Flags().BoolVar(&rc.premium, "premium", false, "Render every section")
	cmd.Flags().StringVar(&rc.pkg, "package", "", "Package whose sections are included")
	cmd.Flags().StringVar(&rc.logoPath, "logo", "", "Path to a logo image")
	cmd.Flags().StringToStringVar(&rc.images, "image", nil, "Vehicle image as url=path, repeatable")
	cmd.Flags().BoolVar(&rc.publish, "publish", false, "Also publish the report to the configured artifact store")

	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func (rc *RenderCmd) context() (domain.RenderContext, error) {
	ctx := domain.RenderContext{
		Registration: rc.registration,
		Reference:    rc.reference,
		Premium:      rc.premium,
		Package:      rc.pkg,
		DateOfCheck:  time.Now().UTC().Truncate(24 * time.Hour),
	}
	if rc.dateOfCheck != "" {
		date, err := time.Parse(dateLayout, rc.dateOfCheck)
		if err != nil {
			return domain.RenderContext{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", rc.dateOfCheck)
		}
		ctx.DateOfCheck = date
	}
	if rc.logoPath != "" {
		logo, err := os.ReadFile(rc.logoPath)
		if err != nil {
			return domain.RenderContext{}, fmt.Errorf("failed to read logo: %w", err)
		}
		ctx.Assets.Logo = logo
	}
	if len(rc.images) > 0 {
		ctx.Assets.Images = make(map[string][]byte, len(rc.images))
		for url, path := range rc.images {
			data, err := os.ReadFile(path)
			if err != nil {
				return domain.RenderContext{}, fmt.Errorf("failed to read image for %s: %w", url, err)
			}
			ctx.Assets.Images[url] = data
		}
	}
	return ctx, nil
}

func (rc *RenderCmd) run(cmd *cobra.Command, _ []string) error {
	rctx, err := rc.context()
	if err != nil {
		return err
	}
	payload, err := readInput(cmd, rc.payloadPath)
	if err != nil {
		return err
	}

	rt, err := rc.load(cmd)
	if err != nil {
		return err
	}
	if rc.publish && rt.Store == nil {
		return fmt.Errorf("--publish requires artifacts.backend to be configured")
	}

	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	art, err := rt.Service.Render(ctx, payload, rctx, rc.format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if art.Fallback {
		logger.Warn().Str("requested", rc.format).Str("format", art.Format).Msg("rendered fallback format")
	}

	if rc.outPath == "" {
		if _, err := cmd.OutOrStdout().Write(art.Body); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		if err := os.WriteFile(rc.outPath, art.Body, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info().Str("path", rc.outPath).Int("bytes", len(art.Body)).Msg("report written")
	}

	if rc.publish {
		location, err := rt.Store.Put(ctx, artifact.Key(rctx, art.Extension), art.ContentType, art.Body)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Published to %s\n", location)
	}
	return nil
}
