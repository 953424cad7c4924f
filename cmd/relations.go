package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/relation"
)

var (
	relationsID   string
	relationsKind string
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "List the records related to a stored record",
	Long: `Follow the haspart or ispartof relations of a stored record breadth
first and list every record reached with its depth.

Traversal stops at relations.max_depth (LOM_MAX_DEPTH); 0 means unbounded.

Examples:
  LOM_DATABASE_URL=postgres://localhost/lom lom relations --id 5f0c...
  lom relations --id 5f0c... --kind ispartof`,
	Args: cobra.NoArgs,
	RunE: runRelations,
}

func init() {
	relationsCmd.Flags().StringVar(&relationsID, "id", "", "Id of a stored record")
	relationsCmd.Flags().StringVar(&relationsKind, "kind", "haspart", "Relation kind (haspart, ispartof)")
	_ = relationsCmd.MarkFlagRequired("id")
}

type relatedRecord struct {
	ID           string `json:"id"`
	Depth        int    `json:"depth"`
	Title        string `json:"title,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

func relationTag(kind string) (relation.Tag, error) {
	switch kind {
	case "haspart":
		return relation.HasPart, nil
	case "ispartof":
		return relation.IsPartOf, nil
	default:
		return relation.Tag{}, fmt.Errorf("unknown relation kind %q (want haspart or ispartof)", kind)
	}
}

func runRelations(cmd *cobra.Command, args []string) error {
	tag, err := relationTag(relationsKind)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeFn, err := openService(ctx, "relations")
	if err != nil {
		return err
	}
	defer closeFn()

	resolved, err := svc.Related(ctx, relationsID, tag)
	if err != nil {
		return err
	}

	out := make([]relatedRecord, 0, len(resolved))
	for _, r := range resolved {
		md := lom.New(r.Document, false)
		out = append(out, relatedRecord{
			ID:           r.Identifier.Entry,
			Depth:        r.Depth,
			Title:        md.GetTitleText(),
			ResourceType: md.ResourceType(),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
