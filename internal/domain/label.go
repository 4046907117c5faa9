package domain

import (
	"bytes"
	"encoding/json"
)

// Top-level keys of the extraction result requested from the model
const (
	KeyNutrients   = "Nutrients"
	KeyIngredients = "Ingredients"
)

// Member is a single key/value pair of an Object
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its members in document order.
// Values are nil, bool, float64, string, []any or Object.
type Object []Member

// Get returns the value stored under key
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores value under key. An existing key keeps its position.
func (o Object) Set(key string, value any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Member{Key: key, Value: value})
}

// Len returns the number of members
func (o Object) Len() int {
	return len(o)
}

// MarshalJSON encodes the object with members in order
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Section identifies the block a FlatRecord belongs to
type Section string

const (
	SectionNutrients   Section = "Nutrients"
	SectionIngredients Section = "Ingredients"
)

// FlatRecord is one tabular row derived from a nutrient pair or an ingredient.
// For ingredients Key holds the 1-based position on the label.
type FlatRecord struct {
	Section Section
	Key     string
	Value   string
}

// MarshalJSON encodes nutrient rows as {"Nutrient", "Value"} and ingredient rows as {"Ingredient"}
func (r FlatRecord) MarshalJSON() ([]byte, error) {
	if r.Section == SectionIngredients {
		return json.Marshal(struct {
			Ingredient string `json:"Ingredient"`
		}{r.Value})
	}
	return json.Marshal(struct {
		Nutrient string `json:"Nutrient"`
		Value    string `json:"Value"`
	}{r.Key, r.Value})
}

// FileHandle references an image registered with the model service
type FileHandle struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
}

// Valid reports whether the handle can be passed to the model
func (h *FileHandle) Valid() bool {
	return h != nil && h.Name != "" && h.URI != ""
}

// StagedImage is an image written to transient storage
type StagedImage struct {
	Path     string
	MIMEType string
}

// Outcome tells which branch a LabelReport represents
type Outcome int

const (
	// OutcomeEmpty means the model returned nothing usable
	OutcomeEmpty Outcome = iota
	// OutcomeExtracted means at least one record was produced
	OutcomeExtracted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExtracted:
		return "extracted"
	default:
		return "empty"
	}
}

// LabelReport is the result of analyzing one label image
type LabelReport struct {
	Filename string
	Outcome  Outcome
	Records  []FlatRecord
}
