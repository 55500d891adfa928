package utils

import (
	"encoding/json"
	"net/http"

	"growest_connect/models"
)

// WriteJSON writes an indented JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.Encode(data)
}

// WriteError writes the {success:false, error, timestamp} failure shape.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, models.NewErrorResponse(msg))
}

// WriteData writes the generic success envelope used by the read endpoints.
func WriteData(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, models.NewDataResponse(data))
}
