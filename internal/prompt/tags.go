package prompt

import (
	"strings"
)

// SituationalTag pairs trigger keywords with an extra directive. Matching is
// case-insensitive substring search against the latest user message only;
// multi-turn context deliberately does not influence triggering.
type SituationalTag struct {
	Keywords  []string
	Directive string
}

// SituationalTags is evaluated in declared order; every matching tag appends
// its directive independently.
var SituationalTags = []SituationalTag{
	{
		Keywords:  []string{"ghost", "left on read", "no reply"},
		Directive: "Treat silence as data. Don’t spiral; propose a clean re-engagement text + one concrete plan.",
	},
	{
		Keywords:  []string{"coffee"},
		Directive: "If user is proposing coffee as a first date, suggest upgrading to a more intentional vibe (nice bar, speakeasy, dessert + walk).",
	},
}

// ApplyTags returns the directives whose keywords appear in lastUserMessage.
// Pure function of its input.
func ApplyTags(tags []SituationalTag, lastUserMessage string) []string {
	lower := strings.ToLower(lastUserMessage)

	var directives []string
	for _, tag := range tags {
		for _, kw := range tag.Keywords {
			if strings.Contains(lower, kw) {
				directives = append(directives, tag.Directive)
				break
			}
		}
	}
	return directives
}
