package common

import (
	"encoding/json"
	"net/http"

	"github.com/Mareeswari30/Smart-Banking/logger"
)

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response body")
	}
}
