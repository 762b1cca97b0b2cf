package utils

// SplitText splits a long string into chunks of approximately chunkSize
// characters, with an overlap to preserve context at boundaries. Rune-based
// so multibyte content never gets cut mid-character.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}

// HeadChunk returns the first chunk of text bounded at maxLen runes. Used to
// cap embedding input at the provider's context limit.
func HeadChunk(text string, maxLen int) string {
	return SplitText(text, maxLen, 0)[0]
}
