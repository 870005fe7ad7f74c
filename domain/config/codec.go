package config

import (
	"encoding/json"
	"fmt"
)

// ToDocument converts a record to its attribute document.
func ToDocument(rec Record) (map[string]interface{}, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s record: %w", rec.Type(), err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", rec.Type(), err)
	}
	return doc, nil
}

// FromDocument builds the record variant named by the document's
// OrganizationConfigType attribute.
func FromDocument(doc map[string]interface{}) (Record, error) {
	name, _ := doc[AttrConfigType].(string)
	rec, ok := NewRecord(ConfigType(name))
	if !ok {
		return nil, fmt.Errorf("unknown configuration type %q", name)
	}
	if err := DecodeInto(doc, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeInto fills rec from doc. Attributes the record does not declare are ignored.
func DecodeInto(doc map[string]interface{}, rec Record) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return json.Unmarshal(raw, rec)
}

// Merge returns a shallow copy of base with every attribute of overlay applied on top.
func Merge(base, overlay map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
