package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/akash1629/cross-domain/internal/bridge"
	"github.com/akash1629/cross-domain/internal/concept"
	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/pathfind"
	"github.com/akash1629/cross-domain/internal/vectorspace"
)

func TestBuildProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		width   int
		want    string
	}{
		{"zero total", 0, 0, 5, "     "},
		{"start", 0, 10, 5, ">    "},
		{"middle", 5, 10, 10, "=====>    "},
		{"complete", 10, 10, 5, "====="},
		{"overshoot", 12, 10, 5, "====="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildProgressBar(tt.current, tt.total, tt.width)
			if got != tt.want {
				t.Errorf("buildProgressBar(%d, %d, %d) = %q, want %q", tt.current, tt.total, tt.width, got, tt.want)
			}
			if len(got) != tt.width {
				t.Errorf("len = %d, want %d", len(got), tt.width)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{59 * time.Second, "59.0s"},
		{61 * time.Second, "1m 1s"},
		{2*time.Minute + 30*time.Second, "2m 30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("got %q, want unchanged", got)
	}
	got := truncateString("fast automatic thinking", 10)
	if got != "fast au..." {
		t.Errorf("got %q, want %q", got, "fast au...")
	}
}

func TestWrapText(t *testing.T) {
	text := "fast automatic thinking and heuristic subjective awareness"
	got := wrapText(text, 20, "  ")
	for _, line := range strings.Split(got, "\n") {
		if len(strings.TrimPrefix(line, "  ")) > 20 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != text {
		t.Errorf("wrapText lost words: %q", got)
	}
	if wrapText("short", 20, "  ") != "short" {
		t.Error("short text should be unchanged")
	}
}

func TestParseAliases(t *testing.T) {
	got := parseAliases(" fast thinking , S1,, ")
	if len(got) != 2 || got[0] != "fast thinking" || got[1] != "S1" {
		t.Errorf("parseAliases = %q", got)
	}
	if parseAliases("") != nil {
		t.Error("empty input should give nil")
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown concept", fmt.Errorf("similarity: %w", vectorspace.ErrUnknownConcept), ExitUnknownConcept},
		{"concept not found", concept.ErrConceptNotFound, ExitUnknownConcept},
		{"no path", pathfind.ErrNoPathFound, ExitNoPath},
		{"empty candidates", bridge.ErrEmptyCandidateSet, ExitEmptyCandidateSet},
		{"not built", vectorspace.ErrNotBuilt, ExitVectorSpaceNotBuilt},
		{"invalid config", fmt.Errorf("%w: alpha", config.ErrInvalidConfig), ExitConfigError},
		{"duplicate id", concept.ErrDuplicateID, ExitDataError},
		{"negative citations", concept.ErrNegativeCitations, ExitDataError},
		{"other", errors.New("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"top-n":                  "top_n",
		"Neighborhood-Threshold": "neighborhood_threshold",
		" alpha ":                "alpha",
		"min_threshold":          "min_threshold",
	}
	for in, want := range tests {
		if got := normalizeKey(in); got != want {
			t.Errorf("normalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigValues(t *testing.T) {
	cfg := config.Default()
	values, err := configValues(&cfg)
	if err != nil {
		t.Fatalf("configValues: %v", err)
	}
	for _, key := range []string{
		"max_vocabulary_size", "alpha", "beta", "gamma", "delta",
		"neighborhood_threshold", "threshold_step", "min_threshold", "top_n",
		"novelty_ceiling", "novelty_fallback", "commonality_sample_size",
	} {
		if _, ok := values[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if values["top_n"] != config.DefaultTopN {
		t.Errorf("top_n = %v, want %d", values["top_n"], config.DefaultTopN)
	}
}

func TestSetConfigValue(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		cfg := config.Default()
		if err := setConfigValue(&cfg, "neighborhood_threshold", "0.6"); err != nil {
			t.Fatalf("setConfigValue: %v", err)
		}
		if cfg.NeighborhoodThreshold != 0.6 {
			t.Errorf("NeighborhoodThreshold = %v, want 0.6", cfg.NeighborhoodThreshold)
		}
	})

	t.Run("int", func(t *testing.T) {
		cfg := config.Default()
		if err := setConfigValue(&cfg, "top_n", "12"); err != nil {
			t.Fatalf("setConfigValue: %v", err)
		}
		if cfg.TopN != 12 {
			t.Errorf("TopN = %d, want 12", cfg.TopN)
		}
	})

	invalid := []struct {
		name  string
		key   string
		value string
	}{
		{"not a number", "top_n", "many"},
		{"fails validation", "alpha", "-1"},
		{"floor above threshold", "min_threshold", "0.9"},
		{"yaml injection", "alpha", "0.5: x"},
		{"comment", "alpha", "0.5 # x"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := setConfigValue(&cfg, tt.key, tt.value)
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if cfg != config.Default() {
				t.Error("config changed on error")
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	if got := formatPath(nil); got != "(no path)" {
		t.Errorf("formatPath(nil) = %q", got)
	}
	p := &pathfind.Path{ConceptIDs: []string{"intuition", "system_1", "consciousness"}}
	if got := formatPath(p); got != "intuition -> system_1 -> consciousness" {
		t.Errorf("formatPath = %q", got)
	}
}

func TestFormatConceptHuman(t *testing.T) {
	c := concept.Concept{
		ID:          "system_1",
		Name:        "System 1",
		Aliases:     []string{"fast thinking", "S1"},
		Description: "fast automatic thinking",
	}
	got := formatConceptHuman(c, "Created concept: ")
	for _, want := range []string{"Created concept: system_1\n", "Name: System 1", "Aliases: fast thinking, S1", "Description: fast automatic thinking"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
