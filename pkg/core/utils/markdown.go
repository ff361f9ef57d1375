package utils

import "strings"

// CleanMarkdown strips the code-fence wrapping providers sometimes add
// around otherwise-valid JSON (e.g. ```json ... ``` or a bare ``` ...
// ```), even though the system prompts ask for a bare JSON object or
// array. Called before SmartParse so that wrapping alone never forces
// a fallback to the repair/Hjson parse paths.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	for _, fence := range []string{"```json", "```markdown", "```"} {
		if strings.HasPrefix(cleaned, fence) && strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, fence), "```")
			return strings.TrimSpace(cleaned)
		}
	}

	return cleaned
}
