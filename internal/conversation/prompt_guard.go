package conversation

import (
	"errors"
	"regexp"
	"strings"
)

// ErrPromptBlocked is returned by the LLM strategy when the user message
// looks like an attempt to take over the model. The rule strategy answers
// instead.
var ErrPromptBlocked = errors.New("conversation: message blocked by prompt guard")

// PromptScreen is the result of screening a message before it is sent to an
// LLM.
type PromptScreen struct {
	Blocked   bool
	Score     float64
	Reasons   []string
	Sanitized string
}

type guardPattern struct {
	re     *regexp.Regexp
	reason string
	weight float64
}

const (
	guardBlockThreshold    = 0.7
	guardSanitizeThreshold = 0.3
)

var guardPatterns = []guardPattern{
	{regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+)?(previous|prior|above|earlier|your)\s+(instructions?|rules?|prompts?)`), "override:ignore_instructions", 0.9},
	{regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|my)\s+`), "override:role_reassignment", 0.7},
	{regexp.MustCompile(`(?i)new\s+instructions?\s*:|system\s*prompt\s*:`), "override:new_instructions", 0.9},
	{regexp.MustCompile(`(?i)jailbreak|DAN\s*mode|developer\s*mode`), "override:jailbreak", 0.9},
	{regexp.MustCompile(`تجاهل\s+(جميع\s+|كل\s+)?(التعليمات|الأوامر)`), "override:ignore_instructions_ar", 0.9},
	{regexp.MustCompile(`(?i)(reveal|show|print|repeat)\s+(your\s+)?(system\s+prompt|instructions|hidden\s+prompt)`), "exfiltration:system_prompt", 0.8},
	{regexp.MustCompile(`(?i)\b(api|secret|aws|gemini)\s*(key|token|secret|password)s?\b`), "exfiltration:credentials", 0.8},
	{regexp.MustCompile(`(?i)<\s*(script|iframe|object|embed|svg)\b`), "markup:html", 0.6},
	{regexp.MustCompile(`(?i)###\s*(system|instruction|assistant|user)\s*:`), "frame:role_markers", 0.7},
	{regexp.MustCompile(`(?i)\[/?INST\]|<\|im_start\|>|<\|im_end\|>|<\|system\|>`), "frame:special_tokens", 0.9},
}

var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[/?INST\]|<\|im_start\|>|<\|im_end\|>|<\|system\|>`),
	regexp.MustCompile(`(?i)###\s*(system|instruction|assistant|user)\s*:`),
	regexp.MustCompile(`(?i)<\s*(script|iframe|object|embed|svg)\b[^>]*>`),
}

// ScreenPrompt scores message against known override and exfiltration
// phrasings. The score is the strongest match plus 0.1 per extra match.
func ScreenPrompt(message string) PromptScreen {
	if strings.TrimSpace(message) == "" {
		return PromptScreen{Sanitized: message}
	}
	var reasons []string
	best := 0.0
	for _, p := range guardPatterns {
		if p.re.MatchString(message) {
			reasons = append(reasons, p.reason)
			if p.weight > best {
				best = p.weight
			}
		}
	}
	score := best
	if len(reasons) > 1 {
		score = min(best+float64(len(reasons)-1)*0.1, 1.0)
	}

	out := PromptScreen{Score: score, Reasons: reasons, Sanitized: message}
	switch {
	case score >= guardBlockThreshold:
		out.Blocked = true
	case score >= guardSanitizeThreshold:
		out.Sanitized = sanitizePrompt(message)
	}
	return out
}

func sanitizePrompt(message string) string {
	for _, re := range sanitizePatterns {
		message = re.ReplaceAllString(message, "")
	}
	return strings.TrimSpace(message)
}

// screenHistory returns a copy of turns safe to replay to an LLM. User turns
// the guard would block are dropped and mid-risk ones are replaced by their
// sanitized text.
func screenHistory(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == RoleUser {
			screen := ScreenPrompt(t.Text)
			if screen.Blocked {
				continue
			}
			t.Text = screen.Sanitized
		}
		out = append(out, t)
	}
	return out
}
