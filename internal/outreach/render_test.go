package outreach

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vulong264/cvstatuschecker/internal/model"
)

func TestRender_KnownAndUnknownTokens(t *testing.T) {
	out := Render("Hi {{candidate_name}}, re {{unknown}}", map[string]string{
		"candidate_name": "Ana",
	})
	assert.Equal(t, "Hi Ana, re {{unknown}}", out)
}

func TestRender_NoTokens(t *testing.T) {
	assert.Equal(t, "plain text", Render("plain text", map[string]string{"a": "b"}))
	assert.Equal(t, "", Render("", nil))
}

func TestRender_ManyOccurrences(t *testing.T) {
	out := Render("{{x}} and {{x}} and {{y}}", map[string]string{"x": "1"})
	assert.Equal(t, "1 and 1 and {{y}}", out)
}

func TestRender_MalformedBracesStayLiteral(t *testing.T) {
	cases := map[string]string{
		"{{unclosed":        "{{unclosed",
		"closed}} only":     "closed}} only",
		"{{ spaced key }}":  "{{ spaced key }}",
		"{{}}":              "{{}}",
		"{{a-b}}":           "{{a-b}}",
		"x {{key}} {{":      "x val {{",
		"{{{key}}}":         "{{{key}}}", // "{key" is not a word
	}
	for in, want := range cases {
		assert.Equal(t, want, Render(in, map[string]string{"key": "val"}), "input %q", in)
	}
}

func TestRender_EmptyValueSubstitutes(t *testing.T) {
	assert.Equal(t, "Hi ,", Render("Hi {{name}},", map[string]string{"name": ""}))
}

func TestBuildTemplateVariables(t *testing.T) {
	years := 7.9
	c := &model.Candidate{
		FullName:          strPtr("Ana Kovacs"),
		CurrentTitle:      strPtr("Senior Engineer"),
		CurrentCompany:    strPtr("FinPay"),
		YearsOfExperience: &years,
		MainSkills:        []string{"Go", "SQL", "K8s", "Redis", "AWS", "GCP"},
	}
	vars := BuildTemplateVariables(c, Variables{SenderName: "Reka", Role: "Backend Lead", Company: "Acme"})
	assert.Equal(t, "Ana Kovacs", vars["candidate_name"])
	assert.Equal(t, "Ana", vars["first_name"])
	assert.Equal(t, "Reka", vars["sender_name"])
	assert.Equal(t, "7", vars["years_of_experience"])
	assert.Equal(t, "Go, SQL, K8s, Redis, AWS", vars["top_skills"], "top skills are capped at five")
}

func TestBuildTemplateVariables_MissingName(t *testing.T) {
	vars := BuildTemplateVariables(&model.Candidate{}, Variables{})
	assert.Equal(t, "there", vars["candidate_name"])
	assert.Equal(t, "there", vars["first_name"])
	assert.Equal(t, "0", vars["years_of_experience"])
}

func TestInjectPixel_BeforeBodyClose(t *testing.T) {
	out := InjectPixel("<html><body><p>hi</p></body></html>", "http://app.example.com", "tok-1")
	assert.Contains(t, out, `src="http://app.example.com/api/track/open/tok-1.gif"`)
	assert.Contains(t, out, `/></body></html>`)
}

func TestInjectPixel_AppendedWithoutBodyTag(t *testing.T) {
	out := InjectPixel("<p>hi</p>", "http://app.example.com", "tok-2")
	assert.True(t, len(out) > len("<p>hi</p>"))
	assert.Contains(t, out, "tok-2.gif")
}

func TestHTMLToPlain(t *testing.T) {
	assert.Equal(t, "Hi Ana see this", htmlToPlain("<p>Hi <b>Ana</b></p>\n<p>see   this</p>"))
}

func TestExtractAddress(t *testing.T) {
	cases := map[string]string{
		"Ana Kovacs <ana.kovacs@example.com>": "ana.kovacs@example.com",
		"ana.kovacs@example.com":              "ana.kovacs@example.com",
		"weird header without address":        "weird header without address",
		"":                                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractAddress(in), "input %q", in)
	}
}

func strPtr(s string) *string { return &s }
