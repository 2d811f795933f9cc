package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// analysisPromptFormat asks the model to pick the best-fitting standard
// and answer with a single JSON object. Kept in Arabic to match the
// documents being classified.
const analysisPromptFormat = `حدد رقم معيار DGA الأنسب للمستند التالي.

المعايير المتاحة:
- 5.2.1: لجنة التحول الرقمي
- 5.2.2: إطار حوكمة التحول الرقمي
- 5.2.3: التعاون المشترك بين الجهات
- 5.3.x: البنية المؤسسية
- 5.8.x: إدارة المخاطر
- 5.9.x: استمرارية الأعمال
- 5.10.1: مكتب إدارة المشاريع
- 5.10.2: أنظمة إدارة المشاريع الرقمية
- 5.13: منصات الحكومة الشاملة
- 5.15: القنوات والخدمات الرقمية
- 5.17: البيانات والذكاء الاصطناعي
- 5.18: الحوسبة السحابية

اسم الملف: %s
محتوى المستند:
%s

أجب بصيغة JSON فقط:
{"standard_id": "X.X.X", "confidence": "high/medium/low", "reasoning": "سبب الاختيار"}`

// buildAnalysisPrompt renders the classification prompt for a document.
func buildAnalysisPrompt(filename, excerpt string) string {
	return fmt.Sprintf(analysisPromptFormat, filename, excerpt)
}

// llmAnswer is the JSON shape the model is asked for.
type llmAnswer struct {
	StandardID string `json:"standard_id"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// parseLLMAnswer extracts the first balanced JSON object from the model
// output and decodes it. Models often wrap the object in prose or code
// fences.
func parseLLMAnswer(output string) (llmAnswer, bool) {
	obj, ok := extractBalancedJSON(output)
	if !ok {
		return llmAnswer{}, false
	}
	var answer llmAnswer
	if err := json.Unmarshal([]byte(obj), &answer); err != nil {
		return llmAnswer{}, false
	}
	return answer, true
}

// extractBalancedJSON returns the first balanced {...} region of s.
func extractBalancedJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
