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

//go:embed prompt/summary.md
var summaryPromptRaw string

var summaryPromptTmpl = template.Must(template.New("summary").Parse(summaryPromptRaw))

var summarySpec = mustSpec(&jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"summary": {
			Type:        "string",
			Description: "A concise paragraph summarizing the idea",
		},
	},
	Required: []string{"summary"},
})

type SummaryInput struct {
	IdeaText string
	Language model.Language
}

type SummaryOutput struct {
	Summary string `json:"summary"`
}

// GenerateSummary condenses a free-text idea into a single paragraph
func (x *Client) GenerateSummary(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	var buf bytes.Buffer
	if err := summaryPromptTmpl.Execute(&buf, input); err != nil {
		return nil, goerr.Wrap(err, "failed to execute summary prompt template")
	}

	var output SummaryOutput
	if err := x.generate(ctx, buf.String(), summarySpec, &output); err != nil {
		return nil, err
	}

	if strings.TrimSpace(output.Summary) == "" {
		return nil, goerr.Wrap(model.ErrGenerationFailed, "generated summary is empty")
	}

	return &output, nil
}
