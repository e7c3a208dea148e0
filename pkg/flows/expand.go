package flows

import (
	"bytes"
	"context"
	_ "embed"
	"slices"
	"strings"
	"text/template"

	"github.com/daper-app/daper/pkg/model"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/expand.md
var expandPromptRaw string

var expandPromptTmpl = template.Must(template.New("expand").Parse(expandPromptRaw))

var expandSpec = mustSpec(&jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"children": {
			Type:        "array",
			Description: "New child nodes for the expanded node",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"title": {
						Type:        "string",
						Description: "Short node label",
					},
				},
				Required: []string{"title"},
			},
		},
	},
	Required: []string{"children"},
})

type ExpandInput struct {
	IdeaContext    string
	ParentTitle    string
	ExistingTitles []string
	Language       model.Language
}

type expandOutput struct {
	Children []*model.MindMapNode `json:"children"`
}

// ExpandMindMapNode proposes additional children for an existing node. Titles
// already present under the parent are passed to the model and any returned
// title that exactly matches one of them (case-sensitive) is dropped.
func (x *Client) ExpandMindMapNode(ctx context.Context, input *ExpandInput) ([]*model.MindMapNode, error) {
	var buf bytes.Buffer
	if err := expandPromptTmpl.Execute(&buf, input); err != nil {
		return nil, goerr.Wrap(err, "failed to execute expand prompt template")
	}

	var output expandOutput
	if err := x.generate(ctx, buf.String(), expandSpec, &output); err != nil {
		return nil, err
	}

	children := make([]*model.MindMapNode, 0, len(output.Children))
	seen := slices.Clone(input.ExistingTitles)
	for _, child := range output.Children {
		if child == nil || strings.TrimSpace(child.Title) == "" {
			continue
		}
		if slices.Contains(seen, child.Title) {
			continue
		}
		seen = append(seen, child.Title)
		children = append(children, &model.MindMapNode{Title: child.Title})
	}

	if len(children) == 0 {
		return nil, goerr.Wrap(model.ErrGenerationFailed, "expansion produced no new nodes",
			goerr.V("parent", input.ParentTitle))
	}

	return children, nil
}
