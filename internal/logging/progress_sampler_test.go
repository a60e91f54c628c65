package logging

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewProgressSamplerDefaultsBucket(t *testing.T) {
	for _, size := range []float64{0, -1} {
		if s := NewProgressSampler(size); s.bucketPercent != 5 {
			t.Errorf("NewProgressSampler(%v).bucketPercent = %v, want 5", size, s.bucketPercent)
		}
	}
	if s := NewProgressSampler(10); s.bucketPercent != 10 {
		t.Errorf("bucketPercent = %v, want 10", s.bucketPercent)
	}
}

func TestProgressSamplerNilLogsEverything(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog("1.2.3", 1, 100) {
		t.Fatal("nil sampler should always log")
	}
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	var got []int
	for done := 1; done <= 10; done++ {
		if s.ShouldLog("1.2.3", done, 10) {
			got = append(got, done)
		}
	}
	// 10%: new scope, 30%: bucket 1, 50%: bucket 2, 80%: bucket 3, 100%: final.
	want := []int{1, 3, 5, 8, 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("logged items mismatch (-want +got):\n%s", diff)
	}
}

func TestProgressSamplerScopeChange(t *testing.T) {
	s := NewProgressSampler(50)
	if !s.ShouldLog("session-a", 1, 20) {
		t.Fatal("first item should log")
	}
	if s.ShouldLog("session-a", 2, 20) {
		t.Fatal("same scope within bucket should not log")
	}
	if !s.ShouldLog("session-b", 3, 20) {
		t.Fatal("new scope should log")
	}
}

func TestProgressSamplerFinalItemAlwaysLogs(t *testing.T) {
	s := NewProgressSampler(100)
	s.ShouldLog("a", 1, 3)
	if s.ShouldLog("a", 2, 3) {
		t.Fatal("middle item should not log")
	}
	if !s.ShouldLog("a", 3, 3) {
		t.Fatal("final item should log")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{1, 4, 25},
		{4, 4, 100},
		{3, -1, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}
