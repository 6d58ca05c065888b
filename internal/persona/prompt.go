package persona

import (
	"fmt"

	"github.com/sozercan/tribunal/apimodels"
)

const standardFormat = `IMPORTANT: RESPONSE MUST BE VALID JSON ONLY. NO MARKDOWN BLOCK. NO CHATTER.
Structure:
{
    "analysis": "Markdown text here...",
    "risk_score": 0 to 100 (integer)
}`

const verdictFormat = `IMPORTANT: RESPONSE MUST BE VALID JSON ONLY. NO MARKDOWN BLOCK. NO CHATTER.
Structure:
{
    "verdict": "BUY", "SELL", or "HOLD",
    "confidence_score": 0 to 100 (integer),
    "analysis": "A summary of the verdict..."
}`

// FormatInstruction returns the fixed output format block for schema.
func FormatInstruction(schema apimodels.Schema) string {
	if schema == apimodels.SchemaVerdict {
		return verdictFormat
	}
	return standardFormat
}

// BuildPrompt composes the full user prompt: role, task, format block, content.
func BuildPrompt(p Persona, content string) string {
	return fmt.Sprintf(`SYSTEM ROLE: %s
TASK: %s

%s

CONTENT TO ANALYZE:
%s
`, p.Role, p.Task, FormatInstruction(p.Schema), content)
}

// SystemMessage is sent as the provider's system turn.
func SystemMessage(p Persona) string {
	return fmt.Sprintf("You are %s. You only speak in JSON.", p.Role)
}
