package logging

// ProgressSampler thins per-item progress lines on large runs. A line is due
// when the completed share crosses a bucket boundary, when work moves to a
// new scope (a session, say), and for the final item.
type ProgressSampler struct {
	bucketPercent float64
	scope         string
	bucket        int
}

// NewProgressSampler returns a sampler with buckets of bucketPercent percent
// (default 5).
func NewProgressSampler(bucketPercent float64) *ProgressSampler {
	if bucketPercent <= 0 {
		bucketPercent = 5
	}
	return &ProgressSampler{bucketPercent: bucketPercent, bucket: -1}
}

// Percent reports done as a share of total, 0 when total is not positive.
func Percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(done) / float64(total)
}

// ShouldLog records that done of total items finished within scope and
// reports whether a progress line is due. A nil sampler logs everything.
func (s *ProgressSampler) ShouldLog(scope string, done, total int) bool {
	if s == nil {
		return true
	}
	due := total > 0 && done >= total
	if scope != s.scope {
		s.scope = scope
		due = true
	}
	if bucket := int(Percent(done, total) / s.bucketPercent); bucket > s.bucket {
		s.bucket = bucket
		due = true
	}
	return due
}
