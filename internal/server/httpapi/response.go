package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/clubevent/internal/common"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// errorMessages overrides the default text for a sentinel on one route.
type errorMessages map[error]string

// writeError maps err onto the status table. Store faults and unknown
// errors never leak their text; fallback is sent instead.
func writeError(w http.ResponseWriter, err error, fallback string, overrides errorMessages) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		writeMessage(w, status, fallback)
		return
	}
	for sentinel, text := range overrides {
		if errors.Is(err, sentinel) {
			msg = text
			break
		}
	}
	writeMessage(w, status, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrAccountDisabled):
		return http.StatusBadRequest, "Account is deactivated"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, common.ErrAlreadyAdmin):
		return http.StatusConflict, "Student is already an admin"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, "Already exists"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "No token, authorization denied"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Token is not valid"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
