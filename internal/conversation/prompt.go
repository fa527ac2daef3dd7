package conversation

import (
	"fmt"
	"strings"

	"github.com/wolfman30/robotics-consultant/internal/templates"
)

// promptHistoryTurns is how many earlier turns are replayed to the model.
const promptHistoryTurns = 6

// BuildPrompt renders the single completion prompt: persona preamble, known
// profile facts, the most recent turns and the current message.
func BuildPrompt(texts *templates.Table, in GenerationInput) string {
	var b strings.Builder
	b.WriteString(texts.Text(tmplPreamble, in.Language))

	if lines := profileLines(in.Profile); len(lines) > 0 {
		b.WriteString("\n\n")
		b.WriteString(texts.Text(tmplPromptProfile, in.Language))
		for _, line := range lines {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}

	history := in.History
	if len(history) > promptHistoryTurns {
		history = history[len(history)-promptHistoryTurns:]
	}
	if len(history) > 0 {
		b.WriteString("\n\n")
		b.WriteString(texts.Text(tmplPromptHistory, in.Language))
		for _, turn := range history {
			fmt.Fprintf(&b, "\n%s: %s", turn.Role, turn.Text)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(texts.Text(tmplPromptUserLabel, in.Language))
	fmt.Fprintf(&b, "\n%s: %s", RoleUser, in.Message)
	return b.String()
}

func profileLines(p Profile) []string {
	var lines []string
	if p.Industry != IndustryUnknown && p.Industry != "" {
		lines = append(lines, "industry: "+string(p.Industry))
	}
	if p.FacilitySize != FacilityUnknown && p.FacilitySize != "" {
		lines = append(lines, "facility_size: "+string(p.FacilitySize))
	}
	if p.BudgetRange != BudgetUnknown && p.BudgetRange != "" {
		lines = append(lines, "budget_range: "+string(p.BudgetRange))
	}
	if p.Timeline != TimelineUnknown && p.Timeline != "" {
		lines = append(lines, "timeline: "+string(p.Timeline))
	}
	if len(p.Interests) > 0 {
		lines = append(lines, "interests: "+strings.Join(distinctInterests(p.Interests), ", "))
	}
	return lines
}

// maxPromptInterests caps the interests rendered into a prompt. The profile
// itself keeps the full multiset.
const maxPromptInterests = 8

// distinctInterests keeps the first occurrence of each interest, in order,
// up to maxPromptInterests.
func distinctInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, min(len(interests), maxPromptInterests))
	for _, in := range interests {
		if _, ok := seen[in]; ok {
			continue
		}
		seen[in] = struct{}{}
		out = append(out, in)
		if len(out) == maxPromptInterests {
			break
		}
	}
	return out
}
