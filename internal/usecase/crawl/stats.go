package crawl

import "time"

// SourceResult holds the outcome of one adapter's crawl within a run.
// A non-nil Err means the whole fetch failed; partial save errors are
// counted without failing the source.
type SourceResult struct {
	Source     string
	Fetched    int
	New        int
	Merged     int
	Dropped    int
	SaveErrors int
	Duration   time.Duration
	Err        error
}

// RunStats aggregates all source results of one run.
type RunStats struct {
	Results  []SourceResult
	Duration time.Duration
}

// Total returns the number of successfully persisted articles.
func (s *RunStats) Total() int {
	n := 0
	for _, r := range s.Results {
		n += r.New + r.Merged
	}
	return n
}

// NewCount returns the number of freshly inserted articles.
func (s *RunStats) NewCount() int {
	n := 0
	for _, r := range s.Results {
		n += r.New
	}
	return n
}

// Failed returns the results whose fetch failed outright.
func (s *RunStats) Failed() []SourceResult {
	var out []SourceResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
