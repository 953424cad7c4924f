package main

import (
	"github.com/tu-graz-library/invenio-records-lom-sub000/cmd"

	// Register format plugins
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/bibtex"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/csl"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/csv"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/datacite"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/dublincore"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/lomjson"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/oai"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/schemaorg"
	_ "github.com/tu-graz-library/invenio-records-lom-sub000/format/ui"
)

func main() {
	cmd.Execute()
}
