package photo

// ImportJob is one organizer invocation.
type ImportJob struct {
	Sources         []string `json:"sources"`
	DestinationRoot string   `json:"destination"`
	Convert         bool     `json:"convert"`
	DeleteOriginals bool     `json:"deleteOriginals"`
}

// FileResult is the outcome of organizing a single source file.
type FileResult struct {
	Source      string
	Date        string
	Destination string
	Err         error
}

// OK reports whether the file was organized without error.
func (r FileResult) OK() bool { return r.Err == nil }

// Kind returns the error kind of a failed result, or "" on success.
func (r FileResult) Kind() ErrorKind {
	if r.Err == nil {
		return ""
	}
	if k := KindOf(r.Err); k != "" {
		return k
	}
	return KindIoError
}

// ImportReport holds one FileResult per source, in source order.
type ImportReport struct {
	Results []FileResult
}

// Succeeded returns the results without error.
func (r ImportReport) Succeeded() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results with an error.
func (r ImportReport) Failed() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}
