package output

// ApplyReport is the outcome of an apply run.
type ApplyReport struct {
	Targets   []string
	Changed   []string
	Unchanged []string
	DryRun    bool
}

// ChangedLabel names what happened to changed paths.
func (r *ApplyReport) ChangedLabel() string {
	if r.DryRun {
		return "would write"
	}
	return "wrote"
}

// TargetInfo describes one available target.
type TargetInfo struct {
	Name        string
	Description string
}

type errorView struct {
	Message string
	Details []detail
}

type detail struct {
	Key   string
	Value interface{}
}
