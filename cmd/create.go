package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

var (
	createTitle        string
	createLang         string
	createResourceType string
	createAuthors      []string
	createPublisher    string
	createDescription  string
	createKeywords     []string
	createLicense      string
	createOEFOS        []string
	createOutput       string
	createPretty       bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft record",
	Long: `Create a draft LOM record in the configured store and print it.

Without LOM_DATABASE_URL the draft lives only for the duration of the
command; save the output and pass it to "lom publish -i".

Examples:
  lom create --title "Satellite Orbits" --author "Doe, Jane" --publisher "TU Graz" \
    --license https://creativecommons.org/licenses/by/4.0/ --oefos 207413 > draft.json`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "Title")
	createCmd.Flags().StringVar(&createLang, "lang", "en", "Language of title, description and keywords")
	createCmd.Flags().StringVar(&createResourceType, "resource-type", lom.ResourceTypeUpload, "Resource type")
	createCmd.Flags().StringSliceVar(&createAuthors, "author", nil, "Author names (Family, Given)")
	createCmd.Flags().StringVar(&createPublisher, "publisher", "", "Publisher")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Description")
	createCmd.Flags().StringSliceVar(&createKeywords, "keyword", nil, "Keywords")
	createCmd.Flags().StringVar(&createLicense, "license", "", "Licence URL")
	createCmd.Flags().StringSliceVar(&createOEFOS, "oefos", nil, "OEFOS codes")
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "Output file (default: stdout)")
	createCmd.Flags().BoolVar(&createPretty, "pretty", true, "Pretty-print JSON output")
	_ = createCmd.MarkFlagRequired("title")
}

func runCreate(cmd *cobra.Command, args []string) error {
	md, err := buildDraft()
	if err != nil {
		return err
	}

	svc, closeFn, err := openService(cmd.Context(), "create")
	if err != nil {
		return err
	}
	defer closeFn()

	draft, err := svc.CreateDraft(cmd.Context(), md)
	if err != nil {
		return err
	}
	return writeRecords(createOutput, []*lom.Metadata{draft}, createPretty)
}

func buildDraft() (*lom.Metadata, error) {
	md := lom.Create(createResourceType, true)
	steps := []func() error{
		func() error { return md.SetTitle(createTitle, createLang) },
		func() error { return md.SetStatus("draft") },
		func() error { return md.AppendMetadataSchema(lom.SourceLOMv1) },
	}
	for _, author := range createAuthors {
		steps = append(steps, func() error { return md.AppendContribute(author, "Author", "") })
	}
	if createPublisher != "" {
		steps = append(steps, func() error { return md.AppendContribute(createPublisher, "Publisher", "") })
	}
	if createDescription != "" {
		steps = append(steps, func() error { return md.AppendDescription(createDescription, createLang) })
	}
	for _, kw := range createKeywords {
		steps = append(steps, func() error { return md.AppendKeyword(kw, createLang) })
	}
	if createLicense != "" {
		steps = append(steps, func() error { return md.SetRightsURL(createLicense) })
	}
	for _, code := range createOEFOS {
		steps = append(steps, func() error { return md.AppendOEFOSID(code, "de") })
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("building draft: %w", err)
		}
	}
	return md, nil
}
