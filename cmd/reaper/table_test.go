package main

import (
	"strings"
	"testing"
	"time"

	"reaper/internal/staging"
)

func TestRenderStagingTableMarksStaleDirectories(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dirs := []staging.DirInfo{
		{Name: "dataset-old", ModTime: now.Add(-72 * time.Hour), Size: 2048},
		{Name: "dataset-new", ModTime: now.Add(-30 * time.Minute), Size: 1024},
	}

	out := renderStagingTable(dirs, now, 24*time.Hour)

	lines := strings.Split(out, "\n")
	var oldRow, newRow string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "dataset-old"):
			oldRow = line
		case strings.Contains(line, "dataset-new"):
			newRow = line
		}
	}
	if !strings.Contains(oldRow, "3d") || !strings.Contains(oldRow, "2.00 KiB") || !strings.Contains(oldRow, "yes") {
		t.Errorf("unexpected stale row %q", oldRow)
	}
	if !strings.Contains(newRow, "30m") || strings.Contains(newRow, "yes") {
		t.Errorf("unexpected fresh row %q", newRow)
	}
	requireContains(t, out, "2 directories")
	requireContains(t, out, "3.00 KiB")
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Minute, "45m"},
		{5 * time.Hour, "5h"},
		{49 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.in); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
