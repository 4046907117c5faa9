package usecase

import (
	"math"
	"strconv"

	"github.com/labellens/backend/internal/domain"
)

// SanitizeFloats returns a copy of v where every NaN or infinite float64 is
// replaced by its string form ("NaN", "+Inf", "-Inf"). Object member order and
// slice order are preserved; all other values are returned unchanged.
func SanitizeFloats(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'g', -1, 64)
		}
		return t
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 32)
		}
		return t
	case domain.Object:
		out := make(domain.Object, len(t))
		for i, m := range t {
			out[i] = domain.Member{Key: m.Key, Value: SanitizeFloats(m.Value)}
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = SanitizeFloats(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = SanitizeFloats(val)
		}
		return out
	default:
		return v
	}
}
