package diagnosis

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Score bands for SeverityForScore. The table entries were hand-assigned and
// these bands reproduce them; they are not calibrated against field data.
const (
	MediumScoreFloor = 40
	HighScoreFloor   = 70
)

func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) Valid() bool {
	_, err := ParseSeverity(string(s))
	return err == nil
}

func SeverityForScore(score int) Severity {
	switch {
	case score >= HighScoreFloor:
		return SeverityHigh
	case score >= MediumScoreFloor:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
