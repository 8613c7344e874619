package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var scorePattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

type ParsedScore struct {
	Score    *float64
	ScoreRaw *string
}

// ParseScore takes the first number found in input. Colour markup, units
// and other decoration around it are ignored.
func ParseScore(input string) ParsedScore {
	line := strings.ReplaceAll(input, "\u00A0", " ")
	token := scorePattern.FindString(line)
	if token == "" {
		return ParsedScore{}
	}

	out := ParsedScore{ScoreRaw: StringPtr(token)}
	if parsed, err := strconv.ParseFloat(token, 64); err == nil && !math.IsInf(parsed, 0) && !math.IsNaN(parsed) {
		out.Score = FloatPtr(parsed)
	}
	return out
}

func FloatPtr(v float64) *float64 { return &v }

func StringPtr(v string) *string { return &v }
