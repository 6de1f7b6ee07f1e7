package outreach

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vulong264/cvstatuschecker/internal/model"
)

// Template rendering substitutes {{variable}} placeholders. Rendering is
// total: it never fails, and a placeholder with no matching variable is left
// verbatim in the output so a partial variable set still produces sendable
// content.

// segment is one piece of a tokenized template: either literal text or a
// placeholder key.
type segment struct {
	literal bool
	text    string
}

func isPlaceholderKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

// tokenize splits a template into literal and placeholder segments. Anything
// that is not exactly {{word}} stays literal, including unbalanced braces.
func tokenize(tmpl string) []segment {
	var segs []segment
	for tmpl != "" {
		open := strings.Index(tmpl, "{{")
		if open < 0 {
			segs = append(segs, segment{literal: true, text: tmpl})
			break
		}
		end := strings.Index(tmpl[open+2:], "}}")
		if end < 0 {
			segs = append(segs, segment{literal: true, text: tmpl})
			break
		}
		key := tmpl[open+2 : open+2+end]
		if !isPlaceholderKey(key) {
			// Not a placeholder. Emit everything through the braces and
			// keep scanning after them.
			segs = append(segs, segment{literal: true, text: tmpl[:open+2]})
			tmpl = tmpl[open+2:]
			continue
		}
		if open > 0 {
			segs = append(segs, segment{literal: true, text: tmpl[:open]})
		}
		segs = append(segs, segment{literal: false, text: key})
		tmpl = tmpl[open+2+end+2:]
	}
	return segs
}

// Render substitutes {{key}} placeholders from variables. Unknown keys are
// left verbatim.
func Render(tmpl string, variables map[string]string) string {
	var b strings.Builder
	for _, seg := range tokenize(tmpl) {
		if seg.literal {
			b.WriteString(seg.text)
			continue
		}
		if v, ok := variables[seg.text]; ok {
			b.WriteString(v)
		} else {
			b.WriteString("{{" + seg.text + "}}")
		}
	}
	return b.String()
}

// Variables carries the operator-supplied values for template rendering.
type Variables struct {
	SenderName string
	Role       string
	Company    string
}

// BuildTemplateVariables builds the variable map used to render templates
// for a given candidate.
func BuildTemplateVariables(c *model.Candidate, v Variables) map[string]string {
	name := ""
	if c.FullName != nil {
		name = *c.FullName
	}
	candidateName, firstName := "there", "there"
	if name != "" {
		candidateName = name
		firstName = strings.Fields(name)[0]
	}

	years := 0
	if c.YearsOfExperience != nil {
		years = int(*c.YearsOfExperience)
	}

	topSkills := c.MainSkills
	if len(topSkills) > 5 {
		topSkills = topSkills[:5]
	}

	return map[string]string{
		"candidate_name":      candidateName,
		"first_name":          firstName,
		"sender_name":         v.SenderName,
		"role":                v.Role,
		"company":             v.Company,
		"candidate_title":     strOrEmpty(c.CurrentTitle),
		"candidate_company":   strOrEmpty(c.CurrentCompany),
		"years_of_experience": fmt.Sprintf("%d", years),
		"top_skills":          strings.Join(topSkills, ", "),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// InjectPixel adds the 1x1 open-tracking image to an HTML body, just before
// </body> when present.
func InjectPixel(html, baseURL, token string) string {
	pixel := fmt.Sprintf(
		`<img src="%s/api/track/open/%s.gif" width="1" height="1" alt="" style="display:none;" />`,
		baseURL, token,
	)
	if strings.Contains(html, "</body>") {
		return strings.Replace(html, "</body>", pixel+"</body>", 1)
	}
	return html + pixel
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// htmlToPlain is a very basic HTML to plain text fallback for mail clients
// that render the text part.
func htmlToPlain(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
