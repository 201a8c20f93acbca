// pkg/llm/prompt.go

package llm

import "fmt"

// ResolutionSystemPrompt frames the model as a conflict resolver that
// answers with file content and nothing else. Anything conversational in
// the reply would be written into the repository verbatim.
const ResolutionSystemPrompt = `You are an expert software engineer resolving Git merge conflicts. ` +
	`You will receive the full content of one file containing conflict markers ` +
	`(<<<<<<<, =======, >>>>>>>). Merge both sides into a single coherent version, ` +
	`keeping the intent of each change where possible. Respond with ONLY the ` +
	`complete resolved file content. Do not add explanations, comments about the ` +
	`merge, or code fences.`

// BuildResolutionPrompt embeds the conflicted file, markers included, in
// the user prompt.
func BuildResolutionPrompt(path, content string) string {
	return fmt.Sprintf("File: %s\n\nContent with conflict markers:\n\n%s", path, content)
}
