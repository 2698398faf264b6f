package ai

import (
	_ "embed"
	"encoding/json"
)

// SchemaName identifies the structured output format in provider requests.
const SchemaName = "drift_report"

//go:embed drift_report.schema.json
var reportSchema []byte

// ReportSchema returns a fresh decoded copy of the drift report schema with
// the findings array bounded by maxFindings when it is positive.
func ReportSchema(maxFindings int) map[string]any {
	var schema map[string]any
	if err := json.Unmarshal(reportSchema, &schema); err != nil {
		panic("ai: embedded drift report schema is invalid: " + err.Error())
	}
	if maxFindings > 0 {
		props := schema["properties"].(map[string]any)
		findings := props["findings"].(map[string]any)
		findings["maxItems"] = maxFindings
	}
	return schema
}

// ReportSchemaJSON is ReportSchema encoded as JSON.
func ReportSchemaJSON(maxFindings int) json.RawMessage {
	data, err := json.Marshal(ReportSchema(maxFindings))
	if err != nil {
		panic("ai: cannot encode drift report schema: " + err.Error())
	}
	return data
}
