package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLLMAnswer(t *testing.T) {
	tests := []struct {
		name   string
		output string
		wantID string
		ok     bool
	}{
		{
			name:   "bare object",
			output: `{"standard_id": "5.9.1", "confidence": "high", "reasoning": "خطة"}`,
			wantID: "5.9.1",
			ok:     true,
		},
		{
			name:   "object wrapped in prose",
			output: `Based on the content, {"standard_id": "5.2.1", "confidence": "medium", "reasoning": "ok"} is my answer.`,
			wantID: "5.2.1",
			ok:     true,
		},
		{
			name:   "code fence",
			output: "```json\n{\"standard_id\": \"5.18.1\", \"confidence\": \"low\", \"reasoning\": \"cloud\"}\n```",
			wantID: "5.18.1",
			ok:     true,
		},
		{
			name:   "braces inside string values",
			output: `{"standard_id": "5.3.1", "confidence": "low", "reasoning": "contains { and } chars"}`,
			wantID: "5.3.1",
			ok:     true,
		},
		{
			name:   "no json at all",
			output: "I am unable to classify this document.",
			ok:     false,
		},
		{
			name:   "unbalanced braces",
			output: `{"standard_id": "5.2.1", "confidence": "low"`,
			ok:     false,
		},
		{
			name:   "malformed json",
			output: `{standard_id: 5.2.1}`,
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, ok := parseLLMAnswer(tt.output)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.wantID, answer.StandardID)
			}
		})
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := buildAnalysisPrompt("5.8.1_risks.pdf", "محتوى المستند هنا")
	assert.Contains(t, prompt, "5.8.1_risks.pdf")
	assert.Contains(t, prompt, "محتوى المستند هنا")
	assert.Contains(t, prompt, "standard_id")
}
