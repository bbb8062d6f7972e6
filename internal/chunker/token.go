package chunker

// EstimateTokens gives a rough token count using the 4 chars/token
// heuristic (1 token ~ 4 characters of English text). This is
// intentionally approximate — exact tokenization is not required for
// chunking, and downstream budgets are calibrated to this estimate.
func EstimateTokens(text string) int {
	return len(text) / 4
}
