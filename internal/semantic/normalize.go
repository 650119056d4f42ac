package semantic

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/AgenticAITest/prd-to-tasks/pkg/jsonutil"
)

// Normalize shapes an arbitrary model completion into a fully-populated
// AnalysisResult. It is total: any input, including garbage, yields a
// valid result. Missing or wrongly-typed fields get typed defaults;
// unrecognized fields are ignored. On parse failure the result is the
// degraded verdict with a single synthesized blocking issue.
func Normalize(raw string) *AnalysisResult {
	doc, ok := jsonutil.ParseLoose(raw)
	if !ok {
		return degraded(raw)
	}

	out := Default()

	if c := childMap(doc, "completeness"); c != nil {
		out.Completeness.Score = cast.ToFloat64(c["score"])
		out.Completeness.MissingElements = stringList(c["missingElements"])
	}

	if g := childMap(doc, "gaps"); g != nil {
		out.Gaps.MissingScreens = stringList(g["missingScreens"])
		out.Gaps.UndefinedEntities = stringList(g["undefinedEntities"])
		out.Gaps.IncompleteWorkflows = stringList(g["incompleteWorkflows"])
		out.Gaps.MissingValidations = stringList(g["missingValidations"])
	}

	if items, ok := doc["conflicts"].([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out.Conflicts = append(out.Conflicts, Conflict{
				Requirement: cast.ToString(m["requirement"]),
				Rule:        cast.ToString(m["rule"]),
				Description: cast.ToString(m["description"]),
			})
		}
	}

	if er := childMap(doc, "entityReadiness"); er != nil {
		out.EntityReadiness.Ready = cast.ToBool(er["ready"])
		out.EntityReadiness.IdentifiedEntities = stringList(er["identifiedEntities"])
		out.EntityReadiness.UncertainEntities = stringList(er["uncertainEntities"])
	}

	if oa := childMap(doc, "overallAssessment"); oa != nil {
		out.OverallAssessment.CanProceed = cast.ToBool(oa["canProceed"])
		out.OverallAssessment.ConfidenceScore = cast.ToFloat64(oa["confidenceScore"])
		out.OverallAssessment.BlockingIssues = stringList(oa["blockingIssues"])
		out.OverallAssessment.Warnings = stringList(oa["warnings"])
		out.OverallAssessment.Summary = cast.ToString(oa["summary"])
	}

	return out
}

func degraded(raw string) *AnalysisResult {
	out := Default()
	preview := raw
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	out.OverallAssessment.BlockingIssues = []string{
		fmt.Sprintf("semantic analysis response could not be parsed: %q", preview),
	}
	out.OverallAssessment.Summary = "analysis response was not valid JSON"
	return out
}

func childMap(doc map[string]any, key string) map[string]any {
	m, _ := doc[key].(map[string]any)
	return m
}

// stringList coerces a loosely-typed JSON value into a string slice,
// dropping elements that cannot be represented as strings. A scalar or
// wrongly-typed value yields the empty list, never nil semantics the
// caller has to special-case.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, err := cast.ToStringE(item); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}
