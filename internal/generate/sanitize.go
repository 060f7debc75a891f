package generate

import (
	"strings"
)

// ContainsCompany reports whether text mentions the company name,
// case-insensitively. An empty company never matches.
func ContainsCompany(text, company string) bool {
	if company == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(company))
}

// ScrubCompany replaces every literal occurrence of the company name with
// a neutral placeholder.
func ScrubCompany(text, company string) string {
	if company == "" || !ContainsCompany(text, company) {
		return text
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(company)
	var b strings.Builder
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:i])
		b.WriteString("the tool")
		text = text[i+len(needle):]
		lower = lower[i+len(needle):]
	}
	return b.String()
}

// containsBanned returns the first banned phrase found in text, or "".
func containsBanned(text string, banned []string) string {
	lower := strings.ToLower(text)
	for _, p := range banned {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return p
		}
	}
	return ""
}

// sentenceEnd reports whether the byte at i ends a sentence.
func sentenceEnd(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

// ClampLength trims text to at most limit characters by greedily
// accumulating whole sentences. When even the first sentence overflows, it
// falls back to a hard cut at the last sentence-ending punctuation above
// half the limit, or at the limit itself if none exists.
func ClampLength(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}

	var b strings.Builder
	start := 0
	for i := 0; i < len(text); i++ {
		if !sentenceEnd(text[i]) {
			continue
		}
		// Swallow trailing punctuation runs ("?!", "...").
		end := i + 1
		for end < len(text) && sentenceEnd(text[end]) {
			end++
		}
		sentence := text[start:end]
		if b.Len()+len(sentence) > limit {
			break
		}
		b.WriteString(sentence)
		start = end
		i = end - 1
	}
	if b.Len() > 0 {
		return strings.TrimSpace(b.String())
	}

	// Hard cut: last sentence end above 50% of the limit.
	cut := text[:limit]
	for i := len(cut) - 1; i >= limit/2; i-- {
		if sentenceEnd(cut[i]) {
			return strings.TrimSpace(cut[:i+1])
		}
	}
	return strings.TrimSpace(cut)
}
