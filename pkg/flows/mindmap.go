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

//go:embed prompt/mindmap.md
var mindMapPromptRaw string

var mindMapPromptTmpl = template.Must(template.New("mindmap").Parse(mindMapPromptRaw))

// Gemini response schemas cannot recurse, so the tree shape is declared as
// explicitly nested levels. The leaf level has no children property, which
// caps generation at exactly GeneratedMindMapDepth levels.
var mindMapSpec = mustSpec(mindMapLevelSchema(model.GeneratedMindMapDepth))

func mindMapLevelSchema(depth int) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"title": {
				Type:        "string",
				Description: "Short node label",
			},
		},
		Required: []string{"title"},
	}
	if depth > 1 {
		schema.Properties["children"] = &jsonschema.Schema{
			Type:        "array",
			Description: "Child nodes elaborating this node",
			Items:       mindMapLevelSchema(depth - 1),
		}
	}
	return schema
}

type MindMapInput struct {
	Summary  string
	Language model.Language
}

// GenerateMindMap builds a fresh tree elaborating an idea summary: the root
// plus three descendant tiers. Shallower branches are acceptable when the
// idea runs out of sub-detail; deeper ones are pruned.
func (x *Client) GenerateMindMap(ctx context.Context, input *MindMapInput) (*model.MindMapNode, error) {
	var buf bytes.Buffer
	if err := mindMapPromptTmpl.Execute(&buf, map[string]any{
		"Summary":  input.Summary,
		"Language": input.Language,
		"Depth":    model.GeneratedMindMapDepth,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to execute mindmap prompt template")
	}

	var root model.MindMapNode
	if err := x.generate(ctx, buf.String(), mindMapSpec, &root); err != nil {
		return nil, err
	}

	root.Truncate(model.GeneratedMindMapDepth)
	if err := root.Validate(); err != nil {
		return nil, goerr.Wrap(model.ErrGenerationFailed, "generated mind map is malformed", goerr.V("cause", err.Error()))
	}

	return &root, nil
}
