package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	classifyInput  string
	classifyOutput string
	classifyOEFOS  []string
	classifyLang   string
	classifyPretty bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Add OEFOS classifications to LOM records",
	Long: `Add OEFOS disciplines to the classification of LOM records.

Each code is expanded to its full taxon path. Paths that are prefixes of
the new one are replaced by it.

Examples:
  lom classify -i record.json --oefos 207413
  lom classify -i record.json --oefos 1010,207413 --lang en --pretty`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyInput, "input", "i", "", "Input file (default: stdin)")
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "", "Output file (default: stdout)")
	classifyCmd.Flags().StringSliceVar(&classifyOEFOS, "oefos", nil, "OEFOS codes to add")
	classifyCmd.Flags().StringVar(&classifyLang, "lang", "de", "Language of the taxon names (de or en)")
	classifyCmd.Flags().BoolVar(&classifyPretty, "pretty", false, "Pretty-print JSON output")
	_ = classifyCmd.MarkFlagRequired("oefos")
}

func runClassify(cmd *cobra.Command, args []string) error {
	records, err := readRecords(classifyInput)
	if err != nil {
		return err
	}
	for _, md := range records {
		for _, code := range classifyOEFOS {
			if err := md.AppendOEFOSID(code, classifyLang); err != nil {
				return fmt.Errorf("classifying %s as %s: %w", md.ID(), code, err)
			}
		}
	}
	return writeRecords(classifyOutput, records, classifyPretty)
}
