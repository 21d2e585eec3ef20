package generator

import (
	"fmt"
	"strings"

	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/models"
)

// buildSystemPrompt assembles the voice constraints: the extracted
// profile, the guardrails, and optional exemplar posts. Themes bias
// framing only; the caller-supplied topic always wins.
func buildSystemPrompt(p *models.ExtractedProfile, settings guardrails.Config, exemplars []string) string {
	var b strings.Builder

	b.WriteString("You are a ghostwriter for short social posts. Write posts that match this voice profile:\n\n")
	b.WriteString("VOICE PROFILE:\n")
	fmt.Fprintf(&b, "- Tone: %s\n", orFallback(p.Tone, "professional"))
	fmt.Fprintf(&b, "- Structure: %s\n", orFallback(p.Structure, "short paragraphs with line breaks"))
	fmt.Fprintf(&b, "- Hook style: %s\n", orFallback(p.HookStyle, "engaging opener"))
	fmt.Fprintf(&b, "- CTA style: %s\n", orFallback(p.CTAStyle, "soft"))
	fmt.Fprintf(&b, "- Themes: %s\n", joinOr(p.Themes, "business"))
	fmt.Fprintf(&b, "- Do: %s\n", joinOr(p.Dos, "Be authentic"))
	fmt.Fprintf(&b, "- Avoid: %s\n", joinOr(p.Donts, "Corporate jargon"))

	b.WriteString("\nGUARDRAILS:\n")
	for _, line := range settings.PromptLines() {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	if len(exemplars) > 0 {
		b.WriteString("\nEXEMPLARS (past posts the author loved; match their feel, never copy them):\n")
		for _, ex := range exemplars {
			fmt.Fprintf(&b, "---\n%s\n", ex)
		}
	}

	b.WriteString(`
FORMAT RULES:
- Write like a real social post with proper line breaks (use double newlines between paragraphs)
- Never write essay-style long paragraphs
- Each post must be distinct and offer unique value
- Do NOT copy phrases from the voice profile samples - generate original content`)

	return b.String()
}

func buildBatchPrompt(topic string, audience *string) string {
	return fmt.Sprintf(`Write 5 posts about: %s
%s

Generate 5 distinct posts with different angles:
1. PRACTICAL: Actionable insight or tip
2. STORY: Personal story or lesson learned
3. CONTRARIAN: Challenge a common belief
4. FRAMEWORK: A checklist, framework, or step-by-step
5. PUNCHY: Short, bold observation (under 100 words)

Return ONLY a JSON array with 5 objects, each having:
- "content": the full post text with proper line breaks (use \n\n for paragraph breaks)
- "tag": one of ["Practical", "Story", "Contrarian", "Framework", "Punchy"]

Example format:
[{"content": "Post text here...\n\nSecond paragraph...", "tag": "Practical"}]`, topic, audienceLine(audience))
}

func buildSinglePrompt(topic string, audience *string, tag string) string {
	return fmt.Sprintf(`Write a new %s post about: %s
%s
Use proper line breaks. Return ONLY the post content, nothing else.`, tag, topic, audienceLine(audience))
}

func audienceLine(audience *string) string {
	if audience != nil && strings.TrimSpace(*audience) != "" {
		return "Target audience: " + *audience
	}
	return "Target audience: working professionals"
}

func orFallback(v, fallback string) string {
	if strings.TrimSpace(v) == "" || v == "not specified" {
		return fallback
	}
	return v
}

func joinOr(vs []string, fallback string) string {
	if len(vs) == 0 {
		return fallback
	}
	return strings.Join(vs, ", ")
}
