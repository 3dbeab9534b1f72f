package dataprocessing

import "strings"

// Diagnostic records one column resolution attempt so operators can audit
// which physical header served each logical field.
type Diagnostic struct {
	Field      string   `json:"field"`
	Column     string   `json:"column,omitempty"`
	Candidates []string `json:"candidates"`
	Matched    bool     `json:"matched"`
	Dropped    bool     `json:"dropped,omitempty"`
}

// Diagnostics accumulates resolution records across a run.
type Diagnostics struct {
	Records []Diagnostic
}

func (d *Diagnostics) add(rec Diagnostic) {
	if d != nil {
		d.Records = append(d.Records, rec)
	}
}

// Missing returns the logical fields that failed to resolve.
func (d *Diagnostics) Missing() []string {
	if d == nil {
		return nil
	}
	var fields []string
	for _, rec := range d.Records {
		if !rec.Matched {
			fields = append(fields, rec.Field)
		}
	}
	return fields
}

// ResolveColumn finds the header matching one of the candidate aliases.
// Candidates are tried in order, so earlier aliases take priority over later
// ones regardless of header position. Matching ignores case and surrounding
// whitespace. Returns the header index, or -1 when no candidate matches.
func ResolveColumn(headers []string, candidates []string, field string, diags *Diagnostics) int {
	for _, cand := range candidates {
		want := strings.ToLower(strings.TrimSpace(cand))
		for i, h := range headers {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				diags.add(Diagnostic{
					Field:      field,
					Column:     strings.TrimSpace(h),
					Candidates: candidates,
					Matched:    true,
				})
				return i
			}
		}
	}
	diags.add(Diagnostic{
		Field:      field,
		Candidates: candidates,
		Matched:    false,
	})
	return -1
}
