package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Question is a single multiple-choice question. Correct is the canonical
// zero-based index into Options; it is the only correct-answer
// representation past the ingestion boundary.
type Question struct {
	ID      int
	Text    string
	Options []string
	Correct int
}

// rawQuestion mirrors the question bank JSON layout. The correct_answer
// field arrives in three shapes across the banks: a number, a digit
// string, or a letter "A".."D".
type rawQuestion struct {
	ID            int             `json:"id"`
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
}

// NormalizeCorrect converts a raw correct_answer value into a zero-based
// option index. Unparseable or out-of-range values are rejected rather
// than defaulted.
func NormalizeCorrect(raw json.RawMessage, optionCount int) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("correct_answer missing")
	}

	var idx int
	if err := json.Unmarshal(raw, &idx); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("correct_answer %s is neither number nor string", raw)
		}
		s = strings.TrimSpace(s)
		switch {
		case len(s) == 1 && s[0] >= 'A' && s[0] <= 'D':
			idx = int(s[0] - 'A')
		case len(s) == 1 && s[0] >= 'a' && s[0] <= 'd':
			idx = int(s[0] - 'a')
		default:
			n, err := strconv.Atoi(s)
			if err != nil {
				return 0, fmt.Errorf("unparseable correct_answer %q", s)
			}
			idx = n
		}
	}

	if idx < 0 || idx >= optionCount {
		return 0, fmt.Errorf("correct_answer index %d out of range (options len=%d)", idx, optionCount)
	}
	return idx, nil
}
