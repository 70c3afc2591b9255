package entity

// Report aggregates the outcomes of one run.
type Report struct {
	Success          int
	InvalidStream    int
	TransientFailure int
	FatalFailure     int
	// Skipped counts lines that were never queued because the run was
	// interrupted.
	Skipped  int
	Outcomes []CaptureOutcome
}

func (r *Report) Record(o CaptureOutcome) {
	switch o.Kind {
	case OutcomeSuccess:
		r.Success++
	case OutcomeInvalidStream:
		r.InvalidStream++
	case OutcomeTransientFailure:
		r.TransientFailure++
	case OutcomeFatalFailure:
		r.FatalFailure++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Total is the number of jobs that reached a terminal outcome.
func (r *Report) Total() int {
	return r.Success + r.InvalidStream + r.TransientFailure + r.FatalFailure
}

// CapturedFiles lists the snapshot paths of the successful jobs.
func (r *Report) CapturedFiles() []string {
	files := make([]string, 0, r.Success)
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			files = append(files, o.FilePath)
		}
	}
	return files
}
