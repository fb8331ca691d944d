package common

import (
	"encoding/json"
	"net/http"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/models/dtos/responses"
)

// RespondSuccess sends data wrapped as {"data": ...}.
func RespondSuccess[T any](w http.ResponseWriter, data T, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}
	writeJSON(w, code, responses.DataEnvelope[T]{Data: data})
}

// RespondError sends the error envelope. message must be safe to show to users.
func RespondError(w http.ResponseWriter, statusCode int, message, location string) {
	writeJSON(w, statusCode, responses.ErrorResponse{
		Status:   string(constants.APIStatusError),
		Message:  message,
		Location: location,
	})
}

// writeJSON marshals body and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
