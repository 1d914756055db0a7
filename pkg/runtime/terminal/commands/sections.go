package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/de-tools/vehicle-atlas/pkg/services/report"
)

type SectionsCmd struct {
	pkg  string
	load Loader
}

func NewSectionsCmd(load Loader) *cobra.Command {
	sc := &SectionsCmd{load: load}
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List report sections in render order",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.pkg, "package", "", "Show which sections a package includes")

	return cmd
}

func (sc *SectionsCmd) run(cmd *cobra.Command, _ []string) error {
	var docs map[string]bool
	if sc.pkg != "" {
		rt, err := sc.load(cmd)
		if err != nil {
			return err
		}
		docs, err = rt.Packages.Docs(sc.pkg)
		if err != nil {
			return err
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	header := table.Row{"#", "Document", "Title", "Free"}
	if sc.pkg != "" {
		header = append(header, "In "+sc.pkg)
	}
	t.AppendHeader(header)

	for i, s := range report.Sections() {
		row := table.Row{i + 1, s.Doc, s.Title, yesNo(s.Free)}
		if sc.pkg != "" {
			row = append(row, yesNo(docs == nil || docs[s.Doc]))
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

type FormatsCmd struct {
	load Loader
}

func NewFormatsCmd(load Loader) *cobra.Command {
	fc := &FormatsCmd{load: load}
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported output formats",
		RunE:  fc.run,
	}
}

func (fc *FormatsCmd) run(cmd *cobra.Command, _ []string) error {
	rt, err := fc.load(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Supported formats:\n%s\n", strings.Join(rt.Service.Formats(), "\n"))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
