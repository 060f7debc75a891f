package generate

import (
	"fmt"
	"strings"

	"cadence/internal/config"
	"cadence/internal/types"
)

// PromptBuilder composes a prompt from optional named sections joined in
// order. Empty sections are skipped, which keeps the dozens of conditional
// fragments out of the call sites.
type PromptBuilder struct {
	sections []string
}

// NewPromptBuilder creates an empty builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Add appends a section unless it is empty.
func (b *PromptBuilder) Add(text string) *PromptBuilder {
	if strings.TrimSpace(text) != "" {
		b.sections = append(b.sections, strings.TrimSpace(text))
	}
	return b
}

// Addf appends a formatted section.
func (b *PromptBuilder) Addf(format string, args ...interface{}) *PromptBuilder {
	return b.Add(fmt.Sprintf(format, args...))
}

// Build joins the sections with blank lines.
func (b *PromptBuilder) Build() string {
	return strings.Join(b.sections, "\n\n")
}

// personaSection describes the writing persona.
func personaSection(p types.Persona) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "You are writing as %q. %s", p.Handle, p.Bio)
	if len(p.Voice) > 0 {
		fmt.Fprintf(b, "\nVoice: %s.", strings.Join(p.Voice, ", "))
	}
	if len(p.Expertise) > 0 {
		fmt.Fprintf(b, "\nYou know a lot about: %s.", strings.Join(p.Expertise, ", "))
	}
	switch p.Style {
	case types.StyleAsksQuestions:
		b.WriteString("\nYou tend to ask questions rather than lecture.")
	case types.StyleGivesAnswers:
		b.WriteString("\nYou tend to give concrete answers from experience.")
	case types.StyleBalanced:
		b.WriteString("\nYou mix questions and answers naturally.")
	}
	return b.String()
}

// venueSection describes the target community and its rules.
func venueSection(c types.Community) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Target community: %s.", c.Name)
	if c.Description != "" {
		fmt.Fprintf(b, " %s", c.Description)
	}
	if c.Rules != nil && !c.Rules.AllowSelfPromotion {
		b.WriteString("\nThis community forbids self-promotion; keep everything vendor-neutral.")
	}
	return b.String()
}

// keywordSection lists the target keywords. The mock backend reads this
// line back, so the prefix is part of the contract.
func keywordSection(keywords []types.Keyword) string {
	if len(keywords) == 0 {
		return ""
	}
	phrases := make([]string, len(keywords))
	for i, k := range keywords {
		phrases[i] = k.Phrase
	}
	return "Target keywords: " + strings.Join(phrases, ", ")
}

// threadTypeSection gives shape instructions per thread type.
func threadTypeSection(tt types.ThreadType) string {
	switch tt {
	case types.ThreadQuestion:
		return "Write a genuine question post: describe your situation briefly and ask the community for input."
	case types.ThreadAdvice:
		return "Write a post asking for (or offering) practical advice, grounded in a concrete situation."
	case types.ThreadStory:
		return "Write a short first-person story about something you tried, including what went wrong."
	default:
		return "Write a discussion-starter post presenting a viewpoint others can push back on."
	}
}

// guardrailSection carries the hard content constraints.
func guardrailSection(prefs config.GenerationConfig) string {
	b := &strings.Builder{}
	b.WriteString("Keep it natural and conversational, like a real community member.")
	if prefs.CompanyName != "" {
		fmt.Fprintf(b, "\nNever mention the company %q or its products by name.", prefs.CompanyName)
	}
	if len(prefs.BannedPhrases) > 0 {
		fmt.Fprintf(b, "\nNever use these phrases: %s.", strings.Join(prefs.BannedPhrases, "; "))
	}
	if prefs.MaxPostLength > 0 {
		fmt.Fprintf(b, "\nStay under %d characters.", prefs.MaxPostLength)
	}
	return b.String()
}

// buildPostPrompt assembles the full post prompt for a slot.
func buildPostPrompt(slot types.AssignedSlot, prefs config.GenerationConfig, strict bool) string {
	b := NewPromptBuilder().
		Add(personaSection(slot.Author)).
		Add(venueSection(slot.Community)).
		Add(keywordSection(slot.Keywords)).
		Add(threadTypeSection(slot.ThreadType)).
		Add(guardrailSection(prefs)).
		Add(prefs.CampaignBrief)
	if strict {
		b.Add("Avoid anything that reads as promotional. No superlatives, no hype, no recommendations of specific products.")
	}
	b.Add(`Respond with JSON only: {"title": "...", "body": "..."}`)
	return b.Build()
}

// buildReplyPrompt assembles a reply prompt, including all prior replies
// in the thread for context continuity.
func buildReplyPrompt(slot types.AssignedSlot, reactor types.Persona, post types.Post, prior []types.Reply, prefs config.GenerationConfig, instr replyInstructions) string {
	b := NewPromptBuilder().
		Add(personaSection(reactor)).
		Add(venueSection(slot.Community)).
		Addf("You are replying to this post titled %q:\n%s", post.Title, post.Body)

	if len(prior) > 0 {
		tb := &strings.Builder{}
		tb.WriteString("Earlier replies in the thread:")
		for i, r := range prior {
			fmt.Fprintf(tb, "\n%d. %s", i+1, r.Text)
		}
		b.Add(tb.String())
	}

	if instr.dissent {
		b.Add("Include a mild dissenting or nuanced take; do not simply agree with everything above.")
	}
	if instr.mention && prefs.CompanyName != "" {
		b.Addf("Mention %s naturally, once, the way a user who happens to use it would.", prefs.CompanyName)
	}
	if instr.followUp {
		b.Add("You wrote the original post. Write a short follow-up responding to the replies above.")
	}

	b.Add(guardrailReplySection(prefs, instr.mention)).
		Add(`Respond with JSON only: {"text": "..."}`)
	return b.Build()
}

func guardrailReplySection(prefs config.GenerationConfig, allowMention bool) string {
	b := &strings.Builder{}
	b.WriteString("Keep it short and conversational.")
	if prefs.CompanyName != "" && !allowMention {
		fmt.Fprintf(b, "\nNever mention the company %q.", prefs.CompanyName)
	}
	if prefs.MaxReplyLength > 0 {
		fmt.Fprintf(b, "\nStay under %d characters.", prefs.MaxReplyLength)
	}
	return b.String()
}

// buildRewritePrompt asks for a one-shot correction of earlier output.
func buildRewritePrompt(original string, instructions []string) string {
	b := NewPromptBuilder().
		Add("Rewrite the following text.").
		Add(strings.Join(instructions, "\n")).
		Addf("Original:\n%s", original).
		Add(`Respond with JSON only: {"variation": "..."}`)
	return b.Build()
}

// replyInstructions are the per-reply conditional prompt switches.
type replyInstructions struct {
	dissent  bool
	mention  bool
	followUp bool
}
