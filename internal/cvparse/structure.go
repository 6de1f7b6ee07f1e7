package cvparse

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// CandidateData is the structured result of parsing one CV. Field names line
// up with the JSON the extraction prompt asks for, so the LLM answer
// unmarshals straight into it.
type CandidateData struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LinkedinURL string `json:"linkedin_url"`
	Location    string `json:"location"`

	YearsOfExperience *float64 `json:"years_of_experience"`
	CurrentTitle      string   `json:"current_title"`
	CurrentCompany    string   `json:"current_company"`

	MainSkills      []string `json:"main_skills"`
	TechStack       []string `json:"tech_stack"`
	BusinessDomains []string `json:"business_domains"`

	Education   []map[string]interface{} `json:"education"`
	WorkHistory []map[string]interface{} `json:"work_history"`

	CVSummary string `json:"cv_summary"`
	RawCVText string `json:"-"`
}

// Truncate very long CVs before the LLM call to stay within token limits.
const maxPromptChars = 15000

const extractionPrompt = `You are an expert HR analyst. Extract structured information from the CV text below.

Return a JSON object with EXACTLY these fields (use null for missing fields, empty arrays [] for missing lists):

{
  "full_name": "string or null",
  "email": "string or null",
  "phone": "string or null",
  "linkedin_url": "string or null",
  "location": "city, country or null",
  "years_of_experience": number_or_null,
  "current_title": "string or null",
  "current_company": "string or null",
  "main_skills": ["skill1", "skill2"],
  "tech_stack": ["tech1", "tech2"],
  "business_domains": ["domain1"],
  "education": [
    {"degree": "BSc Computer Science", "institution": "University Name", "year": 2018}
  ],
  "work_history": [
    {"company": "Acme Corp", "role": "Senior Engineer", "years": 2.5, "description": "brief summary"}
  ],
  "cv_summary": "2-3 sentence professional summary of this candidate"
}

Rules:
- years_of_experience: calculate from earliest professional role to present; exclude internships if short
- main_skills: programming languages and core technical competencies first
- tech_stack: frameworks, libraries, databases, cloud platforms, DevOps tools
- business_domains: infer from project descriptions and industry context
- Be precise with emails and phone numbers (do not guess)
- Return ONLY valid JSON, no markdown fences, no extra text

CV TEXT:
---
%s
---`

// Parser runs the full bytes -> text -> structured-fields pipeline.
type Parser struct {
	client *openai.Client
	model  string
}

// NewParser creates a Parser. With an empty API key the LLM step is disabled
// and structuring returns only the raw text.
func NewParser(apiKey, model string) *Parser {
	if apiKey == "" {
		return &Parser{client: nil, model: model}
	}
	return &Parser{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Process extracts text from CV bytes and structures it. Text extraction
// failure is returned as an error; a structuring failure degrades to a
// minimal result carrying the raw text.
func (p *Parser) Process(ctx context.Context, content []byte, extension string) (CandidateData, error) {
	rawText, err := ExtractText(content, extension)
	if err != nil {
		return CandidateData{}, err
	}
	if strings.TrimSpace(rawText) == "" {
		log.Println("No text could be extracted from CV")
		return CandidateData{RawCVText: ""}, nil
	}
	return p.Structure(ctx, rawText), nil
}

// Structure sends CV text to the LLM and returns structured candidate fields.
// Any LLM or JSON failure returns a minimal CandidateData with the raw text.
func (p *Parser) Structure(ctx context.Context, rawText string) CandidateData {
	if p.client == nil {
		log.Println("LLM disabled, returning raw text only")
		return CandidateData{RawCVText: rawText}
	}

	truncated := rawText
	if len(truncated) > maxPromptChars {
		truncated = truncated[:maxPromptChars]
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: 2048,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: strings.Replace(extractionPrompt, "%s", truncated, 1),
			},
		},
	})
	if err != nil {
		log.Printf("LLM extraction failed: %v", err)
		return CandidateData{RawCVText: rawText}
	}
	if len(resp.Choices) == 0 {
		log.Println("LLM returned no choices")
		return CandidateData{RawCVText: rawText}
	}

	answer := StripJSONFences(resp.Choices[0].Message.Content)

	var data CandidateData
	if err := json.Unmarshal([]byte(answer), &data); err != nil {
		preview := answer
		if len(preview) > 500 {
			preview = preview[:500]
		}
		log.Printf("LLM returned invalid JSON: %v\nResponse: %s", err, preview)
		return CandidateData{RawCVText: rawText}
	}

	data.RawCVText = rawText
	return data
}

// StripJSONFences removes a wrapping markdown code fence the model sometimes
// adds despite instructions.
func StripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
