package flows

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/daper-app/daper/pkg/model"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/outline.md
var outlinePromptRaw string

var outlinePromptTmpl = template.Must(template.New("outline").Parse(outlinePromptRaw))

var outlineSpec = mustSpec(&jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"outline": {
			Type:        "string",
			Description: "A structured Markdown outline elaborating the idea",
		},
	},
	Required: []string{"outline"},
})

type OutlineInput struct {
	IdeaText string
	Language model.Language
}

type OutlineOutput struct {
	Outline string `json:"outline"`
}

// GenerateOutline expands a free-text idea into a structured outline
func (x *Client) GenerateOutline(ctx context.Context, input *OutlineInput) (*OutlineOutput, error) {
	var buf bytes.Buffer
	if err := outlinePromptTmpl.Execute(&buf, input); err != nil {
		return nil, goerr.Wrap(err, "failed to execute outline prompt template")
	}

	var output OutlineOutput
	if err := x.generate(ctx, buf.String(), outlineSpec, &output); err != nil {
		return nil, err
	}

	if strings.TrimSpace(output.Outline) == "" {
		return nil, goerr.Wrap(model.ErrGenerationFailed, "generated outline is empty")
	}

	return &output, nil
}
