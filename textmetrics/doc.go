// Package textmetrics estimates the cost of a span of text.
//
// The estimators are pure functions over the text's Unicode code points and
// whitespace-delimited words. They never fail: empty text yields zero.
//
//	tokens := textmetrics.EstimateTokens(chunk)          // ceil(runes / 4)
//	seconds := textmetrics.EstimateReadingSeconds(chunk) // 200 words per minute
//
// Callers that need exact BPE token counts can use a TiktokenCounter in place
// of the heuristic through the TokenCounter interface.
package textmetrics
