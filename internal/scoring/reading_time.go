package scoring

import "strings"

// Assumed silent reading speed in words per minute.
const readingWPM = 200

// ReadingTimeMinutes estimates reading time as ceil(words/200). Empty
// content reads in 0 minutes.
func ReadingTimeMinutes(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + readingWPM - 1) / readingWPM
}
