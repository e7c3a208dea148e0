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

//go:embed prompt/businessplan.md
var businessPlanPromptRaw string

var businessPlanPromptTmpl = template.Must(template.New("businessplan").Parse(businessPlanPromptRaw))

var businessPlanSpec = mustSpec(&jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"executiveSummary":  {Type: "string", Description: "Executive summary of the business"},
		"marketAnalysis":    {Type: "string", Description: "Market size, trends and competition"},
		"targetCustomers":   {Type: "string", Description: "Who the business serves and why"},
		"revenueModel":      {Type: "string", Description: "How the business makes money"},
		"marketingStrategy": {Type: "string", Description: "How the business reaches customers"},
		"roadmap":           {Type: "string", Description: "Milestones for the first year"},
	},
	Required: []string{
		"executiveSummary", "marketAnalysis", "targetCustomers",
		"revenueModel", "marketingStrategy", "roadmap",
	},
})

type BusinessPlanInput struct {
	Title    string
	Summary  string
	Outline  string
	Language model.Language
}

// BusinessPlan is a fixed set of named plan sections
type BusinessPlan struct {
	ExecutiveSummary  string `json:"executiveSummary"`
	MarketAnalysis    string `json:"marketAnalysis"`
	TargetCustomers   string `json:"targetCustomers"`
	RevenueModel      string `json:"revenueModel"`
	MarketingStrategy string `json:"marketingStrategy"`
	Roadmap           string `json:"roadmap"`
}

// GenerateBusinessPlan drafts a business plan for a saved idea
func (x *Client) GenerateBusinessPlan(ctx context.Context, input *BusinessPlanInput) (*BusinessPlan, error) {
	var buf bytes.Buffer
	if err := businessPlanPromptTmpl.Execute(&buf, input); err != nil {
		return nil, goerr.Wrap(err, "failed to execute business plan prompt template")
	}

	var output BusinessPlan
	if err := x.generate(ctx, buf.String(), businessPlanSpec, &output); err != nil {
		return nil, err
	}

	return &output, nil
}
