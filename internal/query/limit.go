package query

const (
	DefaultLimit = 10
	MinLimit     = 1
	MaxLimit     = 100
)

// NormalizeLimit turns an optional client-supplied limit into a value in
// [MinLimit, MaxLimit]. Missing or non-positive limits fall back to
// DefaultLimit; oversized limits are clamped to MaxLimit.
func NormalizeLimit(limit *int) int {
	if limit == nil || *limit < MinLimit {
		return DefaultLimit
	}
	if *limit > MaxLimit {
		return MaxLimit
	}
	return *limit
}
