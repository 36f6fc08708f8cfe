package entity

// CrawlerSettings is the shared crawler configuration. It is written only by
// an external administrative surface; this subsystem reads it at run start
// and re-polls it on a fixed interval for schedule changes.
type CrawlerSettings struct {
	// Schedule is the cron expression driving orchestrated runs.
	Schedule string
	// Sources maps a source key (e.g. "hackernews") to its enabled flag.
	// Absent keys default to enabled.
	Sources map[string]bool
	// Limits maps a source key to its per-run item limit. Absent keys fall
	// back to the source's registered default.
	Limits map[string]int
}

// DefaultSchedule is used when no schedule has been stored yet.
const DefaultSchedule = "0 * * * *"

// DefaultSettings returns the settings applied when the store is empty
// or unreadable: every source enabled with its registered default limit.
func DefaultSettings() *CrawlerSettings {
	return &CrawlerSettings{
		Schedule: DefaultSchedule,
		Sources:  map[string]bool{},
		Limits:   map[string]int{},
	}
}

// SourceEnabled reports whether the source key is enabled. Sources default
// to enabled unless explicitly switched off.
func (s *CrawlerSettings) SourceEnabled(key string) bool {
	if s == nil || s.Sources == nil {
		return true
	}
	enabled, ok := s.Sources[key]
	if !ok {
		return true
	}
	return enabled
}

// LimitFor returns the configured item limit for a source key, falling back
// to defaultLimit when unset or non-positive.
func (s *CrawlerSettings) LimitFor(key string, defaultLimit int) int {
	if s == nil || s.Limits == nil {
		return defaultLimit
	}
	if limit, ok := s.Limits[key]; ok && limit > 0 {
		return limit
	}
	return defaultLimit
}
