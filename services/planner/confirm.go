package planner

import (
	"strings"
)

// Closed confirmation vocabulary, matched case-insensitively against the
// whole utterance and then against its first word.
var (
	yesWords = map[string]bool{
		"yes": true, "yeah": true, "yep": true, "sure": true, "confirm": true,
		"ok": true, "okay": true, "correct": true, "affirmative": true, "y": true,
	}
	yesPhrases = []string{"go ahead", "do it", "please do", "sounds good"}

	noWords = map[string]bool{
		"no": true, "nope": true, "nah": true, "negative": true, "stop": true,
		"cancel": true, "n": true,
	}
	noPhrases = []string{"never mind", "nevermind", "don't", "do not"}
)

type verdict int

const (
	verdictNone verdict = iota
	verdictYes
	verdictNo
)

func parseYesNo(text string) verdict {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.Trim(normalized, ".,!?")

	for _, p := range yesPhrases {
		if normalized == p {
			return verdictYes
		}
	}
	for _, p := range noPhrases {
		if normalized == p {
			return verdictNo
		}
	}

	first := normalized
	if i := strings.IndexAny(normalized, " ,"); i >= 0 {
		first = normalized[:i]
	}
	if yesWords[first] {
		return verdictYes
	}
	if noWords[first] {
		return verdictNo
	}
	return verdictNone
}
