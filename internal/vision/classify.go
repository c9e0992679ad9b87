package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
)

const classifyPrompt = `You are a vision model helping with civic infrastructure. The image shows a public issue on a city street or public space. Look at the image and classify the issue for a civic reporting app. Respond with ONLY valid JSON and no extra text.

The JSON format must be:
{
  "category": "pothole|broken_light|trash|flooding|other",
  "severity": "low|medium|high",
  "short_description": "<one sentence, plain English>"
}`

// IssueClassification is the parsed model verdict on a report photo.
type IssueClassification struct {
	Category         string `json:"category"`
	Severity         string `json:"severity,omitempty"`
	ShortDescription string `json:"short_description"`
}

// ClassifyIssue asks the vision model to categorize a report photo.
func (c *Client) ClassifyIssue(imageRef string) (*IssueClassification, error) {
	content, err := c.AnalyzeImage(classifyPrompt, imageRef)
	if err != nil {
		return nil, err
	}
	return ParseClassification(content)
}

// ParseClassification extracts the classification JSON from model output,
// tolerating markdown fences and surrounding prose.
func ParseClassification(content string) (*IssueClassification, error) {
	content = stripFences(content)

	var parsed IssueClassification
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to parse classification: %w", err)
		}
		if err2 := json.Unmarshal([]byte(content[start:end+1]), &parsed); err2 != nil {
			return nil, fmt.Errorf("failed to parse classification: %w", err2)
		}
	}

	if parsed.ShortDescription == "" {
		return nil, errors.New("invalid classification: missing short_description")
	}

	parsed.Category = strings.ToLower(strings.TrimSpace(parsed.Category))
	if !models.ValidReportType(parsed.Category) {
		// Unknown labels land in the catch-all bucket rather than failing.
		parsed.Category = models.ReportTypeOther
	}

	parsed.Severity = strings.ToLower(strings.TrimSpace(parsed.Severity))
	switch parsed.Severity {
	case "low", "medium", "high":
	default:
		parsed.Severity = ""
	}

	return &parsed, nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
