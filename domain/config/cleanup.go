package config

import "strings"

// RemoveEmptyFields returns a copy of doc without attributes whose value is nil
// or the empty string. Nested objects and arrays are cleaned recursively; one that
// becomes empty through cleaning is dropped, while one that was empty to begin
// with is kept. false and 0 are ordinary values and are kept.
//
// doc is expected to be JSON-shaped: nested values are map[string]interface{}
// and []interface{}.
func RemoveEmptyFields(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if cleaned, keep := cleanValue(v); keep {
			out[k] = cleaned
		}
	}
	return out
}

func cleanValue(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		return val, val != ""
	case map[string]interface{}:
		if len(val) == 0 {
			return val, true
		}
		cleaned := RemoveEmptyFields(val)
		return cleaned, len(cleaned) > 0
	case []interface{}:
		if len(val) == 0 {
			return val, true
		}
		cleaned := make([]interface{}, 0, len(val))
		for _, elem := range val {
			if c, keep := cleanValue(elem); keep {
				cleaned = append(cleaned, c)
			}
		}
		return cleaned, len(cleaned) > 0
	default:
		return val, true
	}
}

// protectedAttributes are set by the service on every write and are never
// taken from caller data.
var protectedAttributes = []string{AttrOrganizationID, AttrConfigType, AttrCreatedAt, AttrUpdatedAt, AttrUpdatedBy}

// IsProtected reports whether name is a key or audit attribute. The match
// ignores case because record decoding does.
func IsProtected(name string) bool {
	for _, attr := range protectedAttributes {
		if strings.EqualFold(name, attr) {
			return true
		}
	}
	return false
}

// WithoutProtected returns a copy of doc without key and audit attributes.
func WithoutProtected(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if !IsProtected(k) {
			out[k] = v
		}
	}
	return out
}

// PickFold returns the attributes of doc whose names match one of names,
// ignoring case.
func PickFold(doc map[string]interface{}, names map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(names))
	for k, v := range doc {
		for name := range names {
			if strings.EqualFold(k, name) {
				out[k] = v
				break
			}
		}
	}
	return out
}
