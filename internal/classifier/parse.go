package classifier

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var labelPattern = regexp.MustCompile(`(?i)\b(supportive|contradictory)\b(?:\s+([01](?:\.\d+)?))?`)

// ParseLabel extracts the label and optional confidence from raw model output.
// Confidence defaults to 0.5 when the model omits it.
func ParseLabel(raw string) (Label, float64, error) {
	m := labelPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", 0, errors.New("no label found in classifier output")
	}
	label := Label(strings.ToLower(m[1]))
	confidence := 0.5
	if m[2] != "" {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return "", 0, err
		}
		confidence = v
	}
	if confidence < 0 || confidence > 1 {
		return "", 0, errors.New("confidence out of range")
	}
	return label, confidence, nil
}
