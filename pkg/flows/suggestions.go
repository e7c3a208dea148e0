package flows

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/daper-app/daper/pkg/model"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/suggestions.md
var suggestionsPromptRaw string

var suggestionsPromptTmpl = template.Must(template.New("suggestions").Parse(suggestionsPromptRaw))

func suggestionListSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: desc,
		Items:       &jsonschema.Schema{Type: "string"},
	}
}

var suggestionsSpec = mustSpec(&jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"strengths":     suggestionListSchema("Internal strengths of the idea"),
		"weaknesses":    suggestionListSchema("Internal weaknesses of the idea"),
		"opportunities": suggestionListSchema("External opportunities for the idea"),
		"threats":       suggestionListSchema("External threats to the idea"),
	},
	Required: []string{"strengths", "weaknesses", "opportunities", "threats"},
})

type SuggestionsInput struct {
	Title    string
	Summary  string
	Language model.Language
}

// Suggestions is a SWOT-style assessment of an idea
type Suggestions struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// GenerateSuggestions produces a SWOT-style assessment for a saved idea
func (x *Client) GenerateSuggestions(ctx context.Context, input *SuggestionsInput) (*Suggestions, error) {
	var buf bytes.Buffer
	if err := suggestionsPromptTmpl.Execute(&buf, input); err != nil {
		return nil, goerr.Wrap(err, "failed to execute suggestions prompt template")
	}

	var output Suggestions
	if err := x.generate(ctx, buf.String(), suggestionsSpec, &output); err != nil {
		return nil, err
	}

	return &output, nil
}
