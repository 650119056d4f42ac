package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cast"

	"github.com/AgenticAITest/prd-to-tasks/internal/gateway"
	"github.com/AgenticAITest/prd-to-tasks/internal/prd"
	"github.com/AgenticAITest/prd-to-tasks/pkg/jsonutil"
)

// GatewayExtractor asks the LLM to propose entities and relationships
// for a PRD. Unlike the semantic normalizer it is allowed to fail:
// an unparseable proposal aborts the run and resets the workflow,
// because there is nothing reviewable to show.
type GatewayExtractor struct {
	client gateway.Client
	doc    *prd.Document
	logger *slog.Logger
}

func NewGatewayExtractor(client gateway.Client, doc *prd.Document) *GatewayExtractor {
	return &GatewayExtractor{
		client: client,
		doc:    doc,
		logger: slog.Default().With("component", "entity_extractor"),
	}
}

func (g *GatewayExtractor) Extract(ctx context.Context, onProgress func(int)) (*Snapshot, error) {
	onProgress(10)

	system, user, err := g.doc.ExtractionPrompt()
	if err != nil {
		return nil, err
	}
	onProgress(25)

	resp, err := g.client.Call(ctx, gateway.Request{
		Tier:         gateway.TierBalanced,
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    4096,
		MaxRetries:   3,
	})
	if err != nil {
		return nil, err
	}
	onProgress(80)

	snap, err := parseProposal(resp.Content)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("proposal parsed",
		"entities", len(snap.Model.Entities),
		"relationships", len(snap.Model.Relationships),
		"model", resp.Model,
		"total_tokens", resp.Usage.TotalTokens)
	onProgress(95)
	return snap, nil
}

// parseProposal shapes the model's JSON into a snapshot, tolerating
// missing or wrongly-typed fields the same way the normalizer does.
// Entities without a usable name or fields are dropped rather than
// carried as empty shells.
func parseProposal(raw string) (*Snapshot, error) {
	doc, ok := jsonutil.ParseLoose(raw)
	if !ok {
		return nil, fmt.Errorf("entity proposal was not valid JSON")
	}

	model := emptyModel()

	if items, ok := doc["entities"].([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			e := Entity{
				Name:       cast.ToString(m["name"]),
				Provenance: ProvenanceAI,
				Confidence: cast.ToFloat64(m["confidence"]),
			}
			if fields, ok := m["fields"].([]any); ok {
				for _, f := range fields {
					fm, ok := f.(map[string]any)
					if !ok {
						continue
					}
					field := Field{
						Name:       cast.ToString(fm["name"]),
						Type:       cast.ToString(fm["type"]),
						PrimaryKey: cast.ToBool(fm["primaryKey"]),
						Unique:     cast.ToBool(fm["unique"]),
						Nullable:   cast.ToBool(fm["nullable"]),
						Indexed:    cast.ToBool(fm["indexed"]),
						Provenance: ProvenanceAI,
						Confidence: e.Confidence,
					}
					if field.Name != "" {
						e.Fields = append(e.Fields, field)
					}
				}
			}
			if e.Name != "" && len(e.Fields) > 0 {
				model.Entities = append(model.Entities, e)
			}
		}
	}

	if items, ok := doc["relationships"].([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			r := Relationship{
				From:        cast.ToString(m["from"]),
				To:          cast.ToString(m["to"]),
				Cardinality: ParseCardinality(cast.ToString(m["cardinality"])),
				Description: cast.ToString(m["description"]),
			}
			if r.From != "" && r.To != "" {
				model.Relationships = append(model.Relationships, r)
			}
		}
	}

	if items, ok := doc["suggestions"].([]any); ok {
		for _, item := range items {
			if s := cast.ToString(item); s != "" {
				model.Suggestions = append(model.Suggestions, s)
			}
		}
	}

	return &Snapshot{Model: model}, nil
}
