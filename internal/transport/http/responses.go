package httptransport

import (
	"encoding/json"
	"net/http"

	dErrors "coverline/pkg/domain-errors"
)

// statusByCode maps domain error codes to HTTP statuses. Unlisted codes fall
// back to 500.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeUnauthorized:           http.StatusForbidden,
	dErrors.CodePaused:                 http.StatusServiceUnavailable,
	dErrors.CodeInvalidInput:           http.StatusBadRequest,
	dErrors.CodeInvalidAmount:          http.StatusBadRequest,
	dErrors.CodeInvalidPremium:         http.StatusBadRequest,
	dErrors.CodeInsufficientFunds:      http.StatusConflict,
	dErrors.CodeNotFound:               http.StatusNotFound,
	dErrors.CodeAlreadyExists:          http.StatusConflict,
	dErrors.CodeInvalidState:           http.StatusConflict,
	dErrors.CodeInvalidStateTransition: http.StatusConflict,
	dErrors.CodeOverflow:               http.StatusBadRequest,
	dErrors.CodeNotInitialized:         http.StatusServiceUnavailable,
	dErrors.CodeAlreadyInitialized:     http.StatusConflict,

	dErrors.CodeOracleValidationFailed:        http.StatusUnprocessableEntity,
	dErrors.CodeInsufficientOracleSubmissions: http.StatusUnprocessableEntity,
	dErrors.CodeOracleDataStale:               http.StatusUnprocessableEntity,
	dErrors.CodeOracleOutlierDetected:         http.StatusUnprocessableEntity,

	dErrors.CodeTimeout: http.StatusGatewayTimeout,
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{Error: string(code), Description: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
