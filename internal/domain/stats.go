package domain

// DefaultContextBudget is the token window of the downstream model prompt.
const DefaultContextBudget = 200000

// RunStatistics holds the summary of one conversion run.
type RunStatistics struct {
	RecordCount   int
	TotalTokens   int
	AverageTokens int
	OutputBytes   int64
	ContextBudget int
	PercentUsed   float64
	OverBudget    bool
	// RecommendedBatch is the suggested records per request when the run
	// exceeds the budget. Zero means no recommendation.
	RecommendedBatch int
}

// ComputeStatistics derives run statistics from the record count, the summed
// per-record token estimates, the output size and the context budget.
// All divisions are zero-safe: an empty run averages 0 tokens, and no batch
// size is recommended when the average is 0.
func ComputeStatistics(recordCount, totalTokens int, outputBytes int64, budget int) RunStatistics {
	s := RunStatistics{
		RecordCount:   recordCount,
		TotalTokens:   totalTokens,
		OutputBytes:   outputBytes,
		ContextBudget: budget,
	}

	if recordCount > 0 {
		s.AverageTokens = totalTokens / recordCount
	}

	if budget > 0 {
		s.PercentUsed = float64(totalTokens) / float64(budget) * 100
	}

	s.OverBudget = totalTokens > budget
	if s.OverBudget && s.AverageTokens > 0 {
		s.RecommendedBatch = budget / s.AverageTokens
	}

	return s
}

// OutputMegabytes returns the output size in MiB.
func (s RunStatistics) OutputMegabytes() float64 {
	return float64(s.OutputBytes) / 1024 / 1024
}
