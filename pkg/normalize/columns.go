package normalize

import "strings"

// Row is one raw record from an external table extractor: column header
// to cell value. The extractor (spreadsheet or PDF table) has already
// identified the header row; the pipeline does not care which it was.
type Row map[string]string

// Semantic field names resolved against raw column headers.
const (
	FieldEmail      = "email"
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldName       = "name"
	FieldSignIn     = "sign_in"
	FieldProducts   = "products"
	FieldDeviceName = "device_name"
	FieldSerial     = "serial_number"
	FieldUser       = "assigned_user"
	FieldModel      = "model"
	FieldOS         = "os"
)

// columnSynonyms maps each semantic field to the header spellings seen
// across vendor exports. Matching is case-insensitive and trimmed;
// first listed synonym that resolves wins.
var columnSynonyms = map[string][]string{
	FieldEmail:      {"email address", "email", "user principal name", "upn", "mail"},
	FieldFirstName:  {"first name", "given name", "firstname"},
	FieldLastName:   {"last name", "surname", "lastname"},
	FieldName:       {"display name", "name", "full name"},
	FieldSignIn:     {"sign-in allowed", "sign in allowed", "account enabled", "enabled"},
	FieldProducts:   {"microsoft 365 assigned products", "assigned products", "licenses", "products"},
	FieldDeviceName: {"device name", "computer name", "asset name", "hostname", "device"},
	FieldSerial:     {"serial number", "serial", "serial no", "service tag"},
	FieldUser:       {"last user", "user", "assigned user", "last logged in user", "owner"},
	FieldModel:      {"model", "device model"},
	FieldOS:         {"operating system", "os", "os version"},
}

// columnIndex resolves semantic fields against one table's headers. It
// is built once per table so per-row lookups are plain map hits.
type columnIndex struct {
	resolved map[string]string // semantic field -> actual header
	headers  []string
}

func newColumnIndex(rows []Row) *columnIndex {
	idx := &columnIndex{resolved: make(map[string]string)}

	seen := make(map[string]bool)
	canonical := make(map[string]string) // lower-trimmed -> actual header
	for _, row := range rows {
		for header := range row {
			if seen[header] {
				continue
			}
			seen[header] = true
			idx.headers = append(idx.headers, header)
			key := strings.ToLower(strings.TrimSpace(header))
			if _, ok := canonical[key]; !ok {
				canonical[key] = header
			}
		}
	}

	for field, synonyms := range columnSynonyms {
		for _, syn := range synonyms {
			if header, ok := canonical[syn]; ok {
				idx.resolved[field] = header
				break
			}
		}
	}
	return idx
}

// value returns the trimmed cell value for a semantic field, or ""
// when the field has no resolved column or the cell is empty.
func (idx *columnIndex) value(row Row, field string) string {
	header, ok := idx.resolved[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[header])
}

// has reports whether the table resolved a column for the field.
func (idx *columnIndex) has(field string) bool {
	_, ok := idx.resolved[field]
	return ok
}
