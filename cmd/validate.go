package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/record"
)

var (
	validateInput   string
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check LOM records before publishing",
	Long: `Validate LOM JSON records with the checks applied on publish.

Input defaults to stdin.

Examples:
  lom validate -i record.json
  lom validate -i records.json --verbose
  cat record.json | lom validate`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input file (default: stdin)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show warnings")
}

func runValidate(cmd *cobra.Command, args []string) error {
	records, err := readRecords(validateInput)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for i, md := range records {
		result := record.Validate(md, record.ValidationOptions{ResourceTypes: cfg.ResourceTypes})
		label := md.ID()
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if result.IsValid() {
			fmt.Fprintf(out, "✓ %s\n", label)
		} else {
			invalid++
			fmt.Fprintf(out, "✗ %s\n", label)
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  error   %s: %s\n", e.Field, e.Message)
			}
		}
		if validateVerbose {
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "  warning %s: %s\n", w.Field, w.Message)
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d records invalid", invalid, len(records))
	}
	return nil
}
