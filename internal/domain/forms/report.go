package forms

// ReportEntry carries the field-level messages of one held entity.
type ReportEntry struct {
	Label    string   `json:"label"`
	Role     string   `json:"role"`
	Key      *RowKey  `json:"key,omitempty"`
	Messages []string `json:"messages"`
}

// Report lists every held entity in form order: the parent first, then the
// children in payload order. Valid entities carry an empty message list.
type Report []ReportEntry

// Failing keeps only the entries with at least one message.
func (r Report) Failing() Report {
	out := make(Report, 0, len(r))
	for _, e := range r {
		if len(e.Messages) > 0 {
			out = append(out, e)
		}
	}
	return out
}

func (r Report) Lookup(label string) (ReportEntry, bool) {
	for _, e := range r {
		if e.Label == label {
			return e, true
		}
	}
	return ReportEntry{}, false
}

func ChildLabel(role string, key RowKey) string {
	return role + "." + key.String()
}
