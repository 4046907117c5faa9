package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/apex/log"
	"github.com/labellens/backend/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
)

// extractionSchema describes the shape requested by ExtractionPrompt.
// Both keys are optional; a missing key counts as empty.
const extractionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "Nutrients": {"type": "object"},
    "Ingredients": {"type": "array"}
  }
}`

// RecordFlattener turns an extraction result into an ordered list of flat records
type RecordFlattener struct {
	schema *jsonschema.Schema
}

// NewRecordFlattener creates a new flattener with the extraction schema compiled
func NewRecordFlattener() *RecordFlattener {
	return &RecordFlattener{
		schema: jsonschema.MustCompileString("extraction.schema.json", extractionSchema),
	}
}

// Flatten emits one record per nutrient followed by one record per ingredient.
// A document whose Nutrients is not an object or whose Ingredients is not an
// array produces no records.
func (f *RecordFlattener) Flatten(doc domain.Object) []domain.FlatRecord {
	doc = SanitizeFloats(doc).(domain.Object)

	if err := f.validate(doc); err != nil {
		log.WithError(err).Warn("cannot flatten extraction result")
		return []domain.FlatRecord{}
	}

	var nutrients domain.Object
	if v, ok := doc.Get(domain.KeyNutrients); ok {
		nutrients = v.(domain.Object)
	}
	var ingredients []any
	if v, ok := doc.Get(domain.KeyIngredients); ok {
		ingredients = v.([]any)
	}

	records := make([]domain.FlatRecord, 0, len(nutrients)+len(ingredients))
	for _, m := range nutrients {
		records = append(records, domain.FlatRecord{
			Section: domain.SectionNutrients,
			Key:     m.Key,
			Value:   stringifyValue(m.Value),
		})
	}
	for i, v := range ingredients {
		records = append(records, domain.FlatRecord{
			Section: domain.SectionIngredients,
			Key:     strconv.Itoa(i + 1),
			Value:   stringifyValue(v),
		})
	}

	return records
}

func (f *RecordFlattener) validate(doc domain.Object) error {
	if err := f.schema.Validate(plainValue(doc)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnexpectedShape, err)
	}
	return nil
}

// plainValue converts ordered objects into maps so the schema validator can walk them
func plainValue(v any) any {
	switch t := v.(type) {
	case domain.Object:
		out := make(map[string]any, len(t))
		for _, m := range t {
			out[m.Key] = plainValue(m.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plainValue(val)
		}
		return out
	default:
		return v
	}
}

// stringifyValue renders a sanitized leaf as record text
func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
