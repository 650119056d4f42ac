package store

// FileSummary is the per-project artifact overview the UI renders.
type FileSummary struct {
	Total        int            `json:"total"`
	Pending      int            `json:"pending"`
	Approved     int            `json:"approved"`
	Rejected     int            `json:"rejected"`
	Committed    int            `json:"committed"`
	FilesPerTask map[string]int `json:"filesPerTask"`
}

// Summary scans a project's files and computes status counts and a
// per-task file count. Read-only.
func (s *Store) Summary(projectID string) (*FileSummary, error) {
	files, err := s.FilesForProject(projectID)
	if err != nil {
		return nil, err
	}

	out := &FileSummary{FilesPerTask: map[string]int{}}
	for _, f := range files {
		out.Total++
		out.FilesPerTask[f.TaskID]++
		switch f.Status {
		case FilePending:
			out.Pending++
		case FileApproved:
			out.Approved++
		case FileRejected:
			out.Rejected++
		case FileCommitted:
			out.Committed++
		}
	}
	return out, nil
}
