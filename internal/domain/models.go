package domain

import "time"

// LintResult is the outcome of validating one manifest file
type LintResult struct {
	Path     string   `json:"path"`
	Kind     string   `json:"kind"`
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
	ID       string   `json:"id,omitempty"`
	Modules  int      `json:"modules"`
	MaxDepth int      `json:"max_depth"`
	URLs     []string `json:"urls,omitempty"`
	Cached   bool     `json:"cached"`
}

// Report collects the lint results of a run
type Report struct {
	Results   []LintResult  `json:"results"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Strict    bool          `json:"strict"`
}

// Summary counts the results of a report
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Cached  int `json:"cached"`
}

// Summary returns the result counts
func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Valid {
			s.Valid++
		} else {
			s.Invalid++
		}
		if res.Cached {
			s.Cached++
		}
	}
	return s
}

// OK reports whether every result is valid
func (r *Report) OK() bool {
	return r.Summary().Invalid == 0
}
