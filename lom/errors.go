package lom

import "fmt"

// DuplicateIdentifierError reports an external identifier that is already
// used by another record in the same catalog.
type DuplicateIdentifierError struct {
	Catalog  string
	Value    string
	RecordID string
}

func (e *DuplicateIdentifierError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("duplicate identifier %s:%s", e.Catalog, e.Value)
	}
	return fmt.Sprintf("duplicate identifier %s:%s (already used by %s)", e.Catalog, e.Value, e.RecordID)
}
