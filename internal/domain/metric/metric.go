// Package metric projects raw knowledge-base payloads into the externally
// stable record shapes and into the plaintext context handed to the language
// model. Payload field names follow the source database columns; every
// projection field is a string and defaults to "" when the column is absent,
// except the data-sources field which defaults to "N/A".
package metric

import (
	"strings"

	"github.com/MehrozAli/MetricTesting/internal/domain/search/result"
)

// Source payload column names.
const (
	FieldUID                  = "UID"
	FieldBusinessName         = "Business Name"
	FieldUniqueName           = "Unique Name*"
	FieldInSubjectName        = "In-subject Name"
	FieldDefinition           = "m_Definition"
	FieldDefinitionLegacy     = "Definition"
	FieldCalculation          = "m_Calculation"
	FieldCalculationLegacy    = "Calculations"
	FieldRecordedBy           = "m_Recorded By"
	FieldExample              = "m_Example"
	FieldComeThrough          = "m_They Come Through"
	FieldAliases              = "Aliases"
	FieldValueType            = "Value Type"
	FieldPerformanceIndicator = "Performance Indicator"
	FieldDataSources          = "Data Sources"
	FieldAggregationType      = "Aggregation Type"
	FieldImportance           = "Importance"
	FieldDatabaseName         = "Database Name (Existing)"
	FieldSubjectInitials      = "Subject Initials"
)

// dataSourcesFallback is returned when the data-sources column is absent.
const dataSourcesFallback = "N/A"

// contextSeparator joins per-metric context blocks.
const contextSeparator = "\n---\n"

// Record is the full application-facing projection of one knowledge-base entry.
type Record struct {
	Score                float64  `json:"score"`
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	UniqueName           string   `json:"UniqueName"`
	InSubjectName        string   `json:"InSubjectName"`
	Description          string   `json:"description"`
	Calculations         string   `json:"calculations"`
	RecordedBy           string   `json:"recordedBy"`
	Example              string   `json:"example"`
	Sources              []string `json:"sources"`
	Aliases              string   `json:"aliases"`
	ValueType            string   `json:"valueType"`
	PerformanceIndicator string   `json:"performanceIndicator"`
	DataSources          string   `json:"dataSources"`
	AggregationType      string   `json:"aggregationType"`
	Importance           string   `json:"importance"`
	DatabaseName         string   `json:"databaseName"`
	SubjectInitials      string   `json:"subjectInitials"`
}

// Plain is the reduced projection used when the model answers with a direct
// structured record instead of prose.
type Plain struct {
	Score        float64 `json:"score"`
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Calculations string  `json:"calculations"`
	Importance   string  `json:"importance"`
	DataSources  string  `json:"dataSources"`
}

// Summary is the condensed record reference attached to every response.
type Summary struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// FromPayload projects one store payload into a Record.
func FromPayload(score float64, payload map[string]any) Record {
	rec := Record{
		Score:                score,
		ID:                   str(payload, FieldUID),
		Title:                str(payload, FieldBusinessName),
		UniqueName:           str(payload, FieldUniqueName),
		InSubjectName:        str(payload, FieldInSubjectName),
		Description:          str(payload, FieldDefinition, FieldDefinitionLegacy),
		Calculations:         str(payload, FieldCalculation, FieldCalculationLegacy),
		RecordedBy:           str(payload, FieldRecordedBy),
		Example:              str(payload, FieldExample),
		Sources:              []string{},
		Aliases:              str(payload, FieldAliases),
		ValueType:            str(payload, FieldValueType),
		PerformanceIndicator: str(payload, FieldPerformanceIndicator),
		DataSources:          str(payload, FieldDataSources),
		AggregationType:      str(payload, FieldAggregationType),
		Importance:           str(payload, FieldImportance),
		DatabaseName:         str(payload, FieldDatabaseName),
		SubjectInitials:      str(payload, FieldSubjectInitials),
	}
	if rec.DataSources == "" {
		rec.DataSources = dataSourcesFallback
	}
	if src := str(payload, FieldComeThrough); src != "" {
		rec.Sources = []string{src}
	}
	return rec
}

// Project converts a ranked result list into Records, preserving order.
func Project(results []result.Result) []Record {
	records := make([]Record, len(results))
	for i := range results {
		records[i] = FromPayload(results[i].Score(), results[i].Payload())
	}
	return records
}

// ProjectPlain converts a ranked result list into the reduced Plain shape.
func ProjectPlain(results []result.Result) []Plain {
	records := make([]Plain, len(results))
	for i := range results {
		full := FromPayload(results[i].Score(), results[i].Payload())
		records[i] = Plain{
			Score:        full.Score,
			ID:           full.ID,
			Title:        full.Title,
			Description:  full.Description,
			Calculations: full.Calculations,
			Importance:   full.Importance,
			DataSources:  full.DataSources,
		}
	}
	return records
}

// Summaries condenses Records to the (id, title, score) triple.
func Summaries(records []Record) []Summary {
	out := make([]Summary, len(records))
	for i, r := range records {
		out[i] = Summary{ID: r.ID, Title: r.Title, Score: r.Score}
	}
	return out
}

// ContextText renders Records as line-oriented blocks for the language model.
// Lines whose source field is empty are omitted; blocks are joined with a
// fixed separator.
func ContextText(records []Record) string {
	blocks := make([]string, 0, len(records))
	for _, r := range records {
		var b strings.Builder
		writeLine(&b, "Metric", r.Title)
		writeLine(&b, "Definition", r.Description)
		writeLine(&b, "Calculations", r.Calculations)
		writeLine(&b, "Recorded By", r.RecordedBy)
		if len(r.Sources) > 0 {
			writeLine(&b, "Sources", strings.Join(r.Sources, ", "))
		}
		writeLine(&b, "Value Type", r.ValueType)
		writeLine(&b, "Performance Indicator", r.PerformanceIndicator)
		writeLine(&b, "Data Sources", r.DataSources)
		writeLine(&b, "Aggregation Type", r.AggregationType)
		writeLine(&b, "Importance", r.Importance)
		writeLine(&b, "Aliases", r.Aliases)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, contextSeparator)
}

func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

// str returns the first non-empty string value among the given payload keys.
// Rich-text columns occasionally arrive as {"string": "..."} objects.
func str(payload map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := payload[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if s, ok := v["string"].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
