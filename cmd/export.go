package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
)

var (
	exportInput   string
	exportOutput  string
	exportPretty  bool
	exportStyle   string
	exportLocale  string
	exportBaseURL string
	exportResolve bool
	exportColumns []string
	exportSep     string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Serialize LOM records to another format",
	Long: `Serialize LOM JSON records to one of the registered formats.

Arguments:
  format  Target format (see "lom formats")

Input defaults to stdin, output defaults to stdout.

Examples:
  lom export datacite -i record.json --pretty
  lom export oai -i records.json -o records.xml
  lom export citation -i record.json --style apa --locale de-DE
  lom export ui -i course.json --resolve
  lom export csv -i records.json --columns id,title,doi`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "Input file (default: stdin)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportPretty, "pretty", false, "Pretty-print JSON and XML output")
	exportCmd.Flags().StringVar(&exportStyle, "style", "", "Citation style (default from config)")
	exportCmd.Flags().StringVar(&exportLocale, "locale", "", "Citation locale (default from config)")
	exportCmd.Flags().StringVar(&exportBaseURL, "base-url", "", "Repository base URL for landing page links")
	exportCmd.Flags().BoolVar(&exportResolve, "resolve", false, "Resolve related records from the configured store")
	exportCmd.Flags().StringSliceVar(&exportColumns, "columns", nil, "Columns for tabular formats (default: all standard columns)")
	exportCmd.Flags().StringVar(&exportSep, "separator", "", "Separator for multi-valued cells (default \"|\")")
}

func runExport(cmd *cobra.Command, args []string) error {
	serializer, err := format.GetSerializer(args[0])
	if err != nil {
		return fmt.Errorf("unknown target format %q: %w", args[0], err)
	}

	records, err := readRecords(exportInput)
	if err != nil {
		return err
	}

	opts := serializeOptions()
	opts.Pretty = exportPretty
	if exportStyle != "" {
		opts.Style = exportStyle
	}
	if exportLocale != "" {
		opts.Locale = exportLocale
	}
	if exportBaseURL != "" {
		opts.BaseURL = exportBaseURL
	}
	if len(exportColumns) > 0 {
		opts.Columns = exportColumns
	}
	if exportSep != "" {
		opts.MultiValueSeparator = exportSep
	}
	if exportResolve {
		svc, closeFn, err := openService(cmd.Context(), "export")
		if err != nil {
			return err
		}
		defer closeFn()
		opts.Resolver = svc
	}

	slog.Debug("exporting", "format", serializer.Name(), "records", len(records))
	return withOutput(exportOutput, func(w io.Writer) error {
		if err := serializer.Serialize(w, records, opts); err != nil {
			return fmt.Errorf("serializing output: %w", err)
		}
		return nil
	})
}
