package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaError reports that a mandatory semantic field could not be
// resolved from any column header in the input table. The available
// headers are carried so the operator can fix the export or extend the
// synonym list.
type SchemaError struct {
	Field   string
	Headers []string
}

func (e *SchemaError) Error() string {
	headers := append([]string(nil), e.Headers...)
	sort.Strings(headers)
	return fmt.Sprintf("no column resolves required field %q (available headers: %s)",
		e.Field, strings.Join(headers, ", "))
}

// ValidationError reports a post-normalization invariant violation.
// A snapshot that fails validation must never be written to disk.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "snapshot validation failed: " + e.Reason
}
