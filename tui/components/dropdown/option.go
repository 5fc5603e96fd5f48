package dropdown

import (
	"fmt"
	"strconv"
	"strings"
)

// Option is one selectable entry. Every input shape is normalized into an
// Option once, at the control's boundary.
type Option struct {
	Value    string
	Label    string
	Group    string
	Disabled bool
}

// Primitive builds an option whose label is its value.
func Primitive(v interface{}) Option {
	s := primitiveString(v)
	return Option{Value: s, Label: s}
}

// Labeled builds an option with a distinct display label.
func Labeled(value, label string) Option {
	return Option{Value: value, Label: label}
}

// InGroup returns a copy of o placed in group.
func (o Option) InGroup(group string) Option {
	o.Group = group
	return o
}

// Display is the text shown for the option: its label, or the value when
// no label was given.
func (o Option) Display() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

func (o Option) matches(term string) bool {
	return strings.Contains(strings.ToLower(o.Display()), strings.ToLower(term))
}

// Normalize converts loosely typed items into options. Accepted inputs are
// Option, *Option, strings, numbers, bools, fmt.Stringer and maps with
// "value", "label", "group" and "disabled" keys. Nil items are dropped;
// anything else is rendered with fmt.
func Normalize(items ...interface{}) []Option {
	out := make([]Option, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case Option:
			out = append(out, v)
		case *Option:
			if v != nil {
				out = append(out, *v)
			}
		case []Option:
			out = append(out, v...)
		case map[string]interface{}:
			out = append(out, fromMap(v))
		case map[string]string:
			m := make(map[string]interface{}, len(v))
			for k, s := range v {
				m[k] = s
			}
			out = append(out, fromMap(m))
		default:
			out = append(out, Primitive(v))
		}
	}
	return out
}

// Strings is Normalize for a plain list of strings.
func Strings(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

func fromMap(m map[string]interface{}) Option {
	raw, hasValue := m["value"]
	o := Option{}
	if hasValue && raw != nil {
		o.Value = primitiveString(raw)
	}
	if label, ok := m["label"]; ok && label != nil {
		o.Label = primitiveString(label)
	}
	if !hasValue || raw == nil {
		o.Value = o.Label
	}
	if group, ok := m["group"]; ok && group != nil {
		o.Group = primitiveString(group)
	}
	if disabled, ok := m["disabled"].(bool); ok {
		o.Disabled = disabled
	}
	return o
}

func primitiveString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
