package middleware

import (
	"encoding/json"
	"net/http"
)

// writeMessage writes a JSON {"message": ...} response with the correct Content-Type.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
