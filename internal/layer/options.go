package layer

import (
	"encoding/json"
	"math"
)

// Recognized option keys. Every other key is forwarded verbatim to the layer.
const (
	OptionStyle   = "style"
	OptionOpacity = "opacity"
)

// Options holds user-supplied layer options.
type Options map[string]any

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return Options(copyMap(o))
}

// parse checks the recognized keys and returns a normalized style copy and
// the opacity, if set.
func (o Options) parse() (style map[string]any, opacity float64, hasOpacity bool, err error) {
	if raw, ok := o[OptionOpacity]; ok {
		f, ok := toFloat(raw)
		if !ok {
			return nil, 0, false, &ConfigurationError{Option: OptionOpacity, Value: raw, Reason: "must be a number"}
		}
		if math.IsNaN(f) || f < 0 || f > 1 {
			return nil, 0, false, &ConfigurationError{Option: OptionOpacity, Value: raw, Reason: "must be between 0 and 1"}
		}
		opacity, hasOpacity = f, true
	}
	if raw, ok := o[OptionStyle]; ok && raw != nil {
		switch s := raw.(type) {
		case map[string]any:
			style = copyMap(s)
		case map[string]string:
			style = make(map[string]any, len(s))
			for k, v := range s {
				style[k] = v
			}
		default:
			return nil, 0, false, &ConfigurationError{Option: OptionStyle, Value: raw, Reason: "must be a mapping"}
		}
	}
	return style, opacity, hasOpacity, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case Options:
		return Options(copyMap(t))
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = copyValue(el)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	}
	return v
}
