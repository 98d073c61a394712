package services

import (
	"fmt"
	"strings"

	"tweetbloom/application/ports"
)

const evaluateTemplate = `You are Bloom Buddy, an expert AI prompt engineer.
Your goal is to evaluate the user's prompt.

Analyze the following prompt:
"%s"

If the prompt is vague, too short (under 5 words), or unclear, mark it as "bad".
If the prompt is clear, specific, or creative enough, mark it as "good".

Return a JSON object with the following structure:
{
  "status": "good" | "bad",
  "suggestion": "Better version of the prompt (only if status is bad)",
  "reasoning": "Why it is good or bad"
}

Do not include markdown formatting like ` + "```json" + `. Just the raw JSON string.`

const suggestTemplate = `You are Bloom Buddy, a conversation strategist.
Analyze the following chat history and suggest the single best next prompt for the USER to ask.
The suggestion should deepen the conversation or explore a logical next step.

Chat History:
%s

Return a JSON object with the following structure:
{
  "new_prompt": "The suggested next prompt for the user",
  "reasoning": "Why this is a good next step"
}

Do not include markdown formatting like ` + "```json" + `. Just the raw JSON string.`

const summarizeTemplate = `You are Bloom Buddy, an expert summarizer.
Summarize the following chat conversation into a concise note.
The summary should capture the key takeaways, decisions, or information exchanged.
Format it as a short paragraph or bullet points.

Chat History:
%s

Return ONLY the summary text. Do not include any JSON or other formatting.`

const synthesizeTemplate = `You are Bloom Buddy, a conversation strategist.
The following conversation has reached its length limit. Write one self-contained
prompt the user can send to start a fresh conversation that picks up where this
one left off. Carry over the essential context and the open question.

Chat History:
%s

Return ONLY the prompt text. Do not include any JSON or other formatting.`

const combineTemplate = `You are Bloom Buddy, an expert synthesizer.
Combine the following notes into a single, coherent master note.
Identify common themes, merge related information, and create a structured summary.

Notes:
%s

Return ONLY the combined note text. Do not include any JSON or other formatting.`

// formatHistory renders turns one per line as "role: content"
func formatHistory(history []ports.Turn) string {
	lines := make([]string, len(history))
	for i, t := range history {
		lines[i] = t.Role + ": " + t.Content
	}
	return strings.Join(lines, "\n")
}

func formatNotes(contents []string) string {
	parts := make([]string, len(contents))
	for i, c := range contents {
		parts[i] = fmt.Sprintf("Note %d:\n%s", i+1, c)
	}
	return strings.Join(parts, "\n\n")
}

// stripFences removes markdown code fences around model JSON
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
