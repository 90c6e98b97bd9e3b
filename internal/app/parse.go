package app

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns are tried in order; the first match wins.
var taskCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,3})\s*задач`),  // "5 задач выполнено", "12 задачи"
	regexp.MustCompile(`(?i)(\d{1,3})\s*tasks?`), // "5 tasks done"
	regexp.MustCompile(`\b([1-9]\d?)\b`),         // bare number fallback, capped below
}

const maxBareTaskCount = 50

// ParseTaskCount extracts the batch size from free submission text. The bare
// number fallback only accepts 1-50 so message ids and dates in the text do
// not get mistaken for a batch size.
func ParseTaskCount(text string) (int, bool) {
	for i, pattern := range taskCountPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if i == len(taskCountPatterns)-1 && n > maxBareTaskCount {
			continue
		}
		return n, true
	}
	return 0, false
}

var approvedCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)одобрен[а-яё]*\s*(\d{1,3})`), // "одобрено 4"
	regexp.MustCompile(`(?i)approved?\s*(\d{1,3})`),      // "approved 4"
	regexp.MustCompile(`(?i)зачтен[а-яё]*\s*(\d{1,3})`),  // "зачтено 3"
	regexp.MustCompile(`\b(\d{1,3})\s*/\s*\d{1,3}\b`),    // "4/5"
}

var approveAllWords = []string{"все", "всё", "all"}
var approveNoneWords = []string{"ничего", "ни одной", "none", "reject"}

// ParseApprovedCount extracts the approved task count from a reviewer's verdict
// reply. When no explicit count is found the whole batch is approved. The
// result is clamped to [0, taskCount].
func ParseApprovedCount(text string, taskCount int) int {
	for _, pattern := range approvedCountPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return clampApproved(n, taskCount)
			}
		}
	}

	lower := strings.ToLower(text)
	for _, w := range approveNoneWords {
		if strings.Contains(lower, w) {
			return 0
		}
	}
	for _, w := range approveAllWords {
		if strings.Contains(lower, w) {
			return taskCount
		}
	}
	return taskCount
}

func clampApproved(n, taskCount int) int {
	if n < 0 {
		return 0
	}
	if n > taskCount {
		return taskCount
	}
	return n
}
