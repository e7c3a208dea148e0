package flows

import (
	"context"
	"encoding/json"

	"github.com/daper-app/daper/pkg/adapter"
	"github.com/daper-app/daper/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Flows is the AI generation gateway: one function per artifact kind. Every
// call is stateless and idempotent from the gateway's point of view; there is
// no retry and no cache, the caller decides. A response that fails schema
// validation is a generation failure, never partial data.
type Flows interface {
	GenerateTitle(ctx context.Context, input *TitleInput) (*TitleOutput, error)
	GenerateSummary(ctx context.Context, input *SummaryInput) (*SummaryOutput, error)
	GenerateOutline(ctx context.Context, input *OutlineInput) (*OutlineOutput, error)
	GenerateMindMap(ctx context.Context, input *MindMapInput) (*model.MindMapNode, error)
	ExpandMindMapNode(ctx context.Context, input *ExpandInput) ([]*model.MindMapNode, error)
	GenerateSuggestions(ctx context.Context, input *SuggestionsInput) (*Suggestions, error)
	GenerateBusinessPlan(ctx context.Context, input *BusinessPlanInput) (*BusinessPlan, error)
}

// Client implements Flows on top of the Gemini adapter
type Client struct {
	gemini adapter.Gemini
}

// New creates a new flows Client
func New(gemini adapter.Gemini) *Client {
	return &Client{gemini: gemini}
}

var _ Flows = (*Client)(nil)

// generate sends a single prompt with a structured-output config, then decodes
// the JSON response and re-validates it against the declared schema before
// handing it back.
func (x *Client) generate(ctx context.Context, prompt string, spec *responseSpec, out any) error {
	thinkingBudget := int32(0)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   spec.genaiSchema,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  &thinkingBudget,
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := x.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return goerr.Wrap(model.ErrGenerationFailed, "gemini call failed", goerr.V("cause", err.Error()))
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return goerr.Wrap(model.ErrGenerationFailed, "invalid response structure from gemini")
	}

	rawJSON := resp.Candidates[0].Content.Parts[0].Text

	var instance any
	if err := json.Unmarshal([]byte(rawJSON), &instance); err != nil {
		return goerr.Wrap(model.ErrGenerationFailed, "response is not valid JSON", goerr.V("json", rawJSON))
	}

	if err := spec.resolved.Validate(instance); err != nil {
		return goerr.Wrap(model.ErrGenerationFailed, "response failed schema validation",
			goerr.V("json", rawJSON), goerr.V("cause", err.Error()))
	}

	if err := json.Unmarshal([]byte(rawJSON), out); err != nil {
		return goerr.Wrap(model.ErrGenerationFailed, "failed to decode response", goerr.V("json", rawJSON))
	}

	return nil
}
