package entity

import "testing"

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Schedule != DefaultSchedule {
		t.Errorf("Schedule = %q, want %q", s.Schedule, DefaultSchedule)
	}
	if s.Sources == nil || s.Limits == nil {
		t.Error("Sources and Limits maps should be initialized")
	}
}

func TestCrawlerSettings_SourceEnabled(t *testing.T) {
	s := &CrawlerSettings{Sources: map[string]bool{
		"hackernews": true,
		"v2ex":       false,
	}}
	if !s.SourceEnabled("hackernews") {
		t.Error("explicitly enabled source reported disabled")
	}
	if s.SourceEnabled("v2ex") {
		t.Error("explicitly disabled source reported enabled")
	}
	if !s.SourceEnabled("devto") {
		t.Error("absent source should default to enabled")
	}
}

func TestCrawlerSettings_LimitFor(t *testing.T) {
	s := &CrawlerSettings{Limits: map[string]int{
		"hackernews": 50,
		"v2ex":       0,
		"juejin":     -3,
	}}
	tests := []struct {
		key  string
		want int
	}{
		{"hackernews", 50},
		{"v2ex", 30},
		{"juejin", 30},
		{"missing", 30},
	}
	for _, tt := range tests {
		if got := s.LimitFor(tt.key, 30); got != tt.want {
			t.Errorf("LimitFor(%q, 30) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
