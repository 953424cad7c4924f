package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/format/csl"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List registered formats and citation styles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tEXTENSIONS\tREAD\tWRITE\tDESCRIPTION")
		for _, name := range format.List() {
			f, _ := format.Get(name)
			_, canRead := f.(format.Parser)
			_, canWrite := f.(format.Serializer)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				name, strings.Join(f.Extensions(), ","), yesNo(canRead), yesNo(canWrite), f.Description())
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nCitation styles: %s\n", strings.Join(csl.Styles(), ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "Citation locales: %s\n", strings.Join(csl.Locales(), ", "))
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
