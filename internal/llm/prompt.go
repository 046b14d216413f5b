package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Pyrem/talentbase/pkg/types"
)

// evaluationPrompt is the fixed instruction sent for every applicant; the
// %s slot takes the raw Compressed JSON document.
const evaluationPrompt = `You are a recruiting analyst. Given this JSON applicant profile, do four things:

1. Provide a concise 75-word summary of the candidate.
2. Rate overall candidate quality from 1-10 (higher is better).
3. List any data gaps or inconsistencies you notice.
4. Suggest up to three follow-up questions to clarify gaps.

Applicant Profile:
` + "```json\n%s\n```" + `

Return your response in exactly this format:

Summary: <text>
Score: <integer>
Issues: <comma-separated list or 'None'>
Follow-Ups:
- <question 1>
- <question 2>
- <question 3>

If there are fewer than three follow-up questions, that's fine. Just list what's relevant.
`

func BuildPrompt(compressedJSON string) string {
	return fmt.Sprintf(evaluationPrompt, compressedJSON)
}

var (
	summaryPattern   = regexp.MustCompile(`(?is)summary:\s*(.+?)\n(?:score:|$)`)
	scorePattern     = regexp.MustCompile(`(?i)score:\s*(\d+)`)
	issuesPattern    = regexp.MustCompile(`(?is)issues:\s*(.+?)\n(?:follow-ups:|$)`)
	followUpsPattern = regexp.MustCompile(`(?is)follow-ups:\s*(.+)$`)
)

// ParseAssessment pulls the four labeled fields out of a response. A label
// that does not match leaves its field at the zero value; a partial parse
// is not an error.
func ParseAssessment(response string) types.Assessment {
	var a types.Assessment

	if m := summaryPattern.FindStringSubmatch(response); m != nil {
		a.Summary = strings.TrimSpace(m[1])
	}
	if m := scorePattern.FindStringSubmatch(response); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			a.Score = n
		}
	}
	if m := issuesPattern.FindStringSubmatch(response); m != nil {
		a.Issues = strings.TrimSpace(m[1])
	}
	if m := followUpsPattern.FindStringSubmatch(response); m != nil {
		a.FollowUps = strings.TrimSpace(m[1])
	}

	return a
}
