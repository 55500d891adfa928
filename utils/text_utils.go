package utils

import "strings"

// DeduplicateSlice removes duplicates and blank entries, keeping order.
func DeduplicateSlice(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, val := range input {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			result = append(result, val)
			seen[val] = true
		}
	}

	return result
}

// CalculateTokens estimates the token count of a text: one token per word
// plus one per standalone digit/punctuation run. It only needs to be a safe
// overestimate for budgeting prompts, not an exact tokenizer.
func CalculateTokens(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '\r'
	}))
}

// TruncateByTokens trims text to approximately maxTokens, cutting at a word
// boundary. Used to keep candidate descriptions inside the prompt budget.
func TruncateByTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	fields := strings.Fields(text)
	if len(fields) <= maxTokens {
		return text
	}
	return strings.Join(fields[:maxTokens], " ") + "..."
}

// TruncateForLog shortens long strings for structured log fields.
func TruncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
