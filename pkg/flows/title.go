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

//go:embed prompt/title.md
var titlePromptRaw string

var titlePromptTmpl = template.Must(template.New("title").Parse(titlePromptRaw))

var titleSpec = mustSpec(&jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"title": {
			Type:        "string",
			Description: "A short, catchy name for the idea",
		},
	},
	Required: []string{"title"},
})

type TitleInput struct {
	IdeaText string
	Language model.Language
}

type TitleOutput struct {
	Title string `json:"title"`
}

// GenerateTitle names a free-text idea
func (x *Client) GenerateTitle(ctx context.Context, input *TitleInput) (*TitleOutput, error) {
	var buf bytes.Buffer
	if err := titlePromptTmpl.Execute(&buf, input); err != nil {
		return nil, goerr.Wrap(err, "failed to execute title prompt template")
	}

	var output TitleOutput
	if err := x.generate(ctx, buf.String(), titleSpec, &output); err != nil {
		return nil, err
	}

	if strings.TrimSpace(output.Title) == "" {
		return nil, goerr.Wrap(model.ErrGenerationFailed, "generated title is empty")
	}

	return &output, nil
}
