package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var errTest = errors.New("rejected")

func TestLoadEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "")
	if got := LoadEnvString("TEST_STRING", "fallback"); got != "fallback" {
		t.Errorf("unset variable: got %q, want fallback", got)
	}

	t.Setenv("TEST_STRING", "configured")
	if got := LoadEnvString("TEST_STRING", "fallback"); got != "configured" {
		t.Errorf("set variable: got %q, want configured", got)
	}
}

func TestLoadEnvWithFallback(t *testing.T) {
	rejectAll := func(string) error { return errTest }

	t.Run("unset uses default without warning", func(t *testing.T) {
		t.Setenv("TEST_VALUE", "")
		result := LoadEnvWithFallback("TEST_VALUE", "default", rejectAll)
		if result.Value.(string) != "default" {
			t.Errorf("Value = %v", result.Value)
		}
		if result.FallbackApplied || len(result.Warnings) != 0 {
			t.Error("unset variable must not count as fallback")
		}
	})

	t.Run("valid value passes", func(t *testing.T) {
		t.Setenv("TEST_VALUE", "0 * * * *")
		result := LoadEnvWithFallback("TEST_VALUE", "default", ValidateCronSchedule)
		if result.Value.(string) != "0 * * * *" {
			t.Errorf("Value = %v", result.Value)
		}
		if result.FallbackApplied {
			t.Error("valid value must not fall back")
		}
	})

	t.Run("invalid value falls back with warning", func(t *testing.T) {
		t.Setenv("TEST_VALUE", "whenever")
		result := LoadEnvWithFallback("TEST_VALUE", "0 * * * *", ValidateCronSchedule)
		if result.Value.(string) != "0 * * * *" {
			t.Errorf("Value = %v", result.Value)
		}
		if !result.FallbackApplied {
			t.Error("invalid value must fall back")
		}
		if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "TEST_VALUE") {
			t.Errorf("Warnings = %v", result.Warnings)
		}
	})

	t.Run("nil validator accepts anything", func(t *testing.T) {
		t.Setenv("TEST_VALUE", "anything goes")
		result := LoadEnvWithFallback("TEST_VALUE", "default", nil)
		if result.Value.(string) != "anything goes" {
			t.Errorf("Value = %v", result.Value)
		}
	})
}

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		env          string
		want         time.Duration
		wantFallback bool
	}{
		{"unset", "", 30 * time.Minute, false},
		{"valid", "1h30m", 90 * time.Minute, false},
		{"unparseable", "soon", 30 * time.Minute, true},
		{"out of range", "10h", 30 * time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.env)
			result := LoadEnvDuration("TEST_DURATION", 30*time.Minute, func(d time.Duration) error {
				return ValidateDuration(d, time.Minute, 2*time.Hour)
			})
			if got := result.Value.(time.Duration); got != tt.want {
				t.Errorf("Value = %v, want %v", got, tt.want)
			}
			if result.FallbackApplied != tt.wantFallback {
				t.Errorf("FallbackApplied = %v, want %v", result.FallbackApplied, tt.wantFallback)
			}
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		env          string
		want         int
		wantFallback bool
	}{
		{"unset", "", 9091, false},
		{"valid", "8080", 8080, false},
		{"not a number", "eight", 9091, true},
		{"out of range", "80", 9091, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.env)
			result := LoadEnvInt("TEST_INT", 9091, func(v int) error {
				return ValidateIntRange(v, 1024, 65535)
			})
			if got := result.Value.(int); got != tt.want {
				t.Errorf("Value = %d, want %d", got, tt.want)
			}
			if result.FallbackApplied != tt.wantFallback {
				t.Errorf("FallbackApplied = %v, want %v", result.FallbackApplied, tt.wantFallback)
			}
		})
	}
}

func TestLoadEnvBool(t *testing.T) {
	tests := []struct {
		env          string
		def          bool
		want         bool
		wantFallback bool
	}{
		{"", false, false, false},
		{"true", false, true, false},
		{"1", false, true, false},
		{"T", false, true, false},
		{"false", true, false, false},
		{"0", true, false, false},
		{"yes", false, false, true},
		{"on", true, true, true},
	}
	for _, tt := range tests {
		t.Run("value "+tt.env, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.env)
			result := LoadEnvBool("TEST_BOOL", tt.def)
			if got := result.Value.(bool); got != tt.want {
				t.Errorf("Value = %v, want %v", got, tt.want)
			}
			if result.FallbackApplied != tt.wantFallback {
				t.Errorf("FallbackApplied = %v, want %v", result.FallbackApplied, tt.wantFallback)
			}
		})
	}
}
