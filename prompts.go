package advisor

import (
	"fmt"
	"strings"
	"text/template"
)

type extractionPromptData struct {
	Categories   string
	Requirements string
}

type recommendationPromptData struct {
	Requirements string
	Specs        string
	Language     string
}

type comparisonPromptData struct {
	ProfileSummary string
	Specs          string
	Language       string
}

var extractionTemplate = template.Must(template.New("extraction").Parse(`Analyze the user's requirements for an electronic device.
Extract the most suitable device category from: {{.Categories}}. If no specific category is mentioned, state "all".
Extract any specific brand mentioned (e.g., Apple, Samsung). If no brand, state "any".
Identify key keywords/features (e.g., camera quality, battery life, performance, display, storage, portability, budget focus).

User requirements: "{{.Requirements}}"

Provide the output in a JSON format:
{"category": "category_name", "brand": "brand_name", "keywords": "comma-separated keywords"}
Example: {"category": "Smartphones", "brand": "Samsung", "keywords": "great camera, long battery, good display"}`))

var recommendationTemplate = template.Must(template.New("recommendation").Parse(`Based on the user's requirements: "{{.Requirements}}"
And the following detailed device specifications:

{{.Specs}}

Provide a personalized recommendation for the best electronic device from the listed options.
Explain WHY this device fits the user's needs, specifically mentioning how its key features (e.g., display, processor, camera, battery life, design) align with the user's stated priorities.
If multiple devices are suitable, recommend the single best one and briefly mention why others might also be considered, focusing on how well they match the *user's specific words and priorities*.
Do not mention prices or cost, as this information is not available.
Your response should be concise, helpful, and in {{.Language}}.`))

var comparisonTemplate = template.Must(template.New("comparison").Parse(`Compare the following electronic devices based on their detailed specifications.
User's general preferences/summary: "{{.ProfileSummary}}" (Use this to guide the importance of features).
Highlight key differences and similarities that would be relevant to a user making a purchase decision.
Organize the comparison clearly, focusing on important features like display, performance, camera, battery, and storage.
Provide a summary explaining which device might be better for whom and why, *strictly based on specs and user preferences, not price*.
Do not mention prices or cost.
Your response should be concise, helpful, and in {{.Language}}.

Device specifications to compare:
{{.Specs}}`))

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
