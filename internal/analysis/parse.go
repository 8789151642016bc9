package analysis

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"frameworks/api_lookout/pkg/models"
)

// ErrUnparsable means no extraction strategy produced a valid trends
// payload from the model output.
var ErrUnparsable = errors.New("analysis: response is not parsable as trends JSON")

// ErrNoValidTrends means the payload parsed but every record violated
// the output contract.
var ErrNoValidTrends = errors.New("analysis: no trend records satisfied the output contract")

var (
	embeddedJSONPattern = regexp.MustCompile(`(?s)\{.*"trends".*\}`)
	codeBlockPattern    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
)

type trendsEnvelope struct {
	Trends []models.Trend `json:"trends"`
}

// ExtractTrends pulls the trends array out of model output. Models are
// asked for bare JSON but routinely wrap it in prose or a fenced code
// block, so three strategies run in order: parse the whole body, parse
// the widest embedded object mentioning "trends", parse the first
// fenced code block. Records that violate the output contract are
// dropped; a non-empty payload where nothing survives is an error.
func ExtractTrends(text string) ([]models.Trend, error) {
	trends, ok := extractEnvelope(text)
	if !ok {
		return nil, ErrUnparsable
	}
	if len(trends) == 0 {
		return trends, nil
	}

	valid := make([]models.Trend, 0, len(trends))
	for _, t := range trends {
		if validTrend(t) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidTrends
	}
	return valid, nil
}

func extractEnvelope(text string) ([]models.Trend, bool) {
	if trends, ok := tryParse(text); ok {
		return trends, true
	}

	if match := embeddedJSONPattern.FindString(text); match != "" {
		if trends, ok := tryParse(match); ok {
			return trends, true
		}
	}

	if match := codeBlockPattern.FindStringSubmatch(text); len(match) > 1 {
		if trends, ok := tryParse(strings.TrimSpace(match[1])); ok {
			return trends, true
		}
	}

	return nil, false
}

// validTrend enforces the contract the prompt demands: every narrative
// field present, a category from the closed set, at least one source.
func validTrend(t models.Trend) bool {
	return t.Title != "" &&
		t.Category.IsValid() &&
		t.Summary != "" &&
		t.WhyItMatters != "" &&
		t.ContentAngle != "" &&
		t.Script != "" &&
		len(t.Sources) > 0
}

func tryParse(text string) ([]models.Trend, bool) {
	var envelope trendsEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, false
	}
	if envelope.Trends == nil {
		return nil, false
	}
	return envelope.Trends, true
}
