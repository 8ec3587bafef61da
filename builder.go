package cohere

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// Payload is an ordered JSON object built fresh for every call.
// Keys are emitted in insertion order.
type Payload struct {
	keys   []string
	values map[string]any
}

// NewPayload creates an empty payload.
func NewPayload() *Payload {
	return &Payload{values: make(map[string]any)}
}

// Set stores value under key. An existing key keeps its position.
func (p *Payload) Set(key string, value any) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Payload) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present.
func (p *Payload) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the keys in emission order.
func (p *Payload) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Len returns the number of fields.
func (p *Payload) Len() int {
	return len(p.keys)
}

// MarshalJSON encodes the payload as a JSON object in key order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Build assembles the payload for op from params.
// Fields are visited in table order. Required fields that were not supplied
// fail with a *ValidationError; optional fields are kept only when their rule
// accepts the supplied value.
func Build[P any](op Operation, params P) (*Payload, error) {
	v := reflect.ValueOf(params)
	if v.Kind() != reflect.Struct {
		return nil, &ValidationError{Operation: op.Name, Reason: "params must be a struct, got " + v.Kind().String()}
	}
	index := wireIndex[P]()

	payload := NewPayload()
	for _, f := range op.Fields {
		name, ok := index[f.Wire]
		if !ok {
			return nil, &ValidationError{Operation: op.Name, Field: f.Wire, Reason: "not declared by " + v.Type().Name()}
		}
		fv := v.FieldByName(name)

		if f.Required {
			if !isSupplied(fv) {
				return nil, &ValidationError{Operation: op.Name, Field: f.Wire, Reason: "is required"}
			}
			payload.Set(f.Wire, wireValue(fv))
			continue
		}

		if accepts(f.Rule, fv) {
			payload.Set(f.Wire, wireValue(fv))
		}
	}
	return payload, nil
}

// isSupplied reports whether a value was given at all.
func isSupplied(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return !v.IsNil()
	case reflect.String:
		return v.Len() > 0
	default:
		return true
	}
}

// accepts applies an inclusion rule to an optional value.
func accepts(rule Rule, v reflect.Value) bool {
	switch rule {
	case RuleTrue:
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return false
			}
			v = v.Elem()
		}
		return v.Kind() == reflect.Bool && v.Bool()
	case RuleSupplied:
		return isSupplied(v)
	default:
		switch v.Kind() {
		case reflect.Slice, reflect.Map:
			return !v.IsNil() && v.Len() > 0
		case reflect.Bool:
			return v.Bool()
		case reflect.Pointer:
			// A false flag is left out like an absent one; other zero scalars are sent.
			if !v.IsNil() && v.Elem().Kind() == reflect.Bool {
				return v.Elem().Bool()
			}
			return !v.IsNil()
		default:
			return isSupplied(v)
		}
	}
}

// wireValue dereferences optional scalars.
func wireValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		return v.Elem().Interface()
	}
	return v.Interface()
}

var wireIndexes sync.Map

// wireIndex maps wire names to struct field names for P using sentinel metadata.
func wireIndex[P any]() map[string]string {
	t := reflect.TypeOf((*P)(nil)).Elem()
	if cached, ok := wireIndexes.Load(t); ok {
		if index, ok := cached.(map[string]string); ok {
			return index
		}
	}

	metadata := sentinel.Inspect[P]()
	index := make(map[string]string, len(metadata.Fields))
	for _, field := range metadata.Fields {
		name := wireName(field)
		if name == "-" {
			continue
		}
		index[name] = field.Name
	}

	wireIndexes.Store(t, index)
	return index
}

// wireName extracts the wire name from a field's json tag.
func wireName(field sentinel.FieldMetadata) string {
	if jsonTag, ok := field.Tags["json"]; ok {
		parts := strings.Split(jsonTag, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0]
		}
	}
	return field.Name
}
