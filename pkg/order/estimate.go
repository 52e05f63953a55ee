package order

// Estimate returns the expected completion time in minutes for a candidate
// order: everything already pending plus the candidate's own prep time.
// Pure function; callers pass an aggregate captured in the same critical
// section as the eventual enqueue.
func Estimate(pendingAggregate, candidatePrep int) int {
	return pendingAggregate + candidatePrep
}
