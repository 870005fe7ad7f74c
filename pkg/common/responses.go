package common

import (
	"encoding/json"
	"net/http"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes int64 = 1 << 20

// RespondJSON writes v as a JSON body with the given status
func RespondJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// RespondSuccess writes the success envelope {"success": true, key: data}
func RespondSuccess(w http.ResponseWriter, status int, key string, data interface{}) error {
	return RespondJSON(w, status, map[string]interface{}{
		"success": true,
		key:       data,
	})
}

// ParseJSONBody decodes a JSON request body with a size limit. Unknown fields are
// accepted; schemas downstream decide what to keep.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
