package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

var (
	publishInput  string
	publishID     string
	publishOutput string
	publishPretty bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish draft records",
	Long: `Validate drafts, mint their persistent identifiers and mark them
published.

Drafts are taken from the configured store by --id, or imported from a LOM
JSON file with -i.

Examples:
  lom publish -i draft.json
  LOM_DATABASE_URL=postgres://localhost/lom lom publish --id 5f0c...`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVarP(&publishInput, "input", "i", "", "Draft file (default: stdin unless --id is set)")
	publishCmd.Flags().StringVar(&publishID, "id", "", "Id of a stored draft")
	publishCmd.Flags().StringVarP(&publishOutput, "output", "o", "", "Output file (default: stdout)")
	publishCmd.Flags().BoolVar(&publishPretty, "pretty", true, "Pretty-print JSON output")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, closeFn, err := openService(ctx, "publish")
	if err != nil {
		return err
	}
	defer closeFn()

	ids := []string{publishID}
	if publishID == "" {
		drafts, err := readRecords(publishInput)
		if err != nil {
			return err
		}
		ids = ids[:0]
		for _, md := range drafts {
			if md.ID() == "" {
				created, err := svc.CreateDraft(ctx, md)
				if err != nil {
					return err
				}
				ids = append(ids, created.ID())
				continue
			}
			if err := svc.Import(ctx, md); err != nil {
				return err
			}
			ids = append(ids, md.ID())
		}
	}

	published := make([]*lom.Metadata, 0, len(ids))
	for _, id := range ids {
		md, err := svc.Publish(ctx, id)
		if err != nil {
			return err
		}
		published = append(published, md)
	}
	return writeRecords(publishOutput, published, publishPretty)
}
