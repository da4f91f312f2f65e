package llm

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

// Prompt names.
const (
	PromptExtract  = "extract"
	PromptOverlap  = "overlap"
	PromptDraft    = "draft"
	PromptRefine   = "refine"
	PromptFollowup = "followup"
)

var (
	//go:embed prompts/extract.txt
	promptExtract string
	//go:embed prompts/overlap.txt
	promptOverlap string
	//go:embed prompts/draft.txt
	promptDraft string
	//go:embed prompts/refine.txt
	promptRefine string
	//go:embed prompts/followup.txt
	promptFollowup string
)

var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"first": func(items []string, n int) []string {
		if len(items) > n {
			return items[:n]
		}
		return items
	},
}

var prompts = map[string]*template.Template{
	PromptExtract:  template.Must(template.New(PromptExtract).Funcs(promptFuncs).Parse(promptExtract)),
	PromptOverlap:  template.Must(template.New(PromptOverlap).Funcs(promptFuncs).Parse(promptOverlap)),
	PromptDraft:    template.Must(template.New(PromptDraft).Funcs(promptFuncs).Parse(promptDraft)),
	PromptRefine:   template.Must(template.New(PromptRefine).Funcs(promptFuncs).Parse(promptRefine)),
	PromptFollowup: template.Must(template.New(PromptFollowup).Funcs(promptFuncs).Parse(promptFollowup)),
}

// RenderPrompt executes the named prompt template with data.
func RenderPrompt(name string, data any) (string, error) {
	tmpl, ok := prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return b.String(), nil
}
