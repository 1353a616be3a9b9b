package http

import (
	"encoding/json"
	"errors"
	"github.com/go-playground/validator/v10"
	"net/http"
	"ru-ticket/common/errs"
	"ru-ticket/model"
)

// MaxBodyBytes bounds request bodies; photos travel inline as data URLs.
const MaxBodyBytes = 5 << 20

func decodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return &errs.HttpError{Code: http.StatusRequestEntityTooLarge, Message: "Request too large"}
		}
		return &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"}
	}

	return nil
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var message string
	var data any

	var httpErr *errs.HttpError
	var validationErr validator.ValidationErrors
	var invalidInput *errs.InvalidInput

	switch {
	case errors.As(err, &httpErr):
		message = httpErr.Message
		data = httpErr.Data
		w.WriteHeader(httpErr.Code)
	case errors.As(err, &validationErr):
		message = "Validation failed"
		w.WriteHeader(http.StatusBadRequest)

		validationErrors := make(map[string]string)
		for _, fieldErr := range validationErr {
			fieldName := fieldErr.Field()
			validationErrors[fieldName] = fieldErr.Tag()
		}

		data = validationErrors
	case errors.As(err, &invalidInput):
		message = "Validation failed"
		data = invalidInput.Fields
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, errs.ErrInvalidInput):
		message = "Invalid request"
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, errs.ErrNotFound):
		message = "Ticket not found"
		w.WriteHeader(http.StatusNotFound)
	default:
		message = "Internal Server Error"
		w.WriteHeader(http.StatusInternalServerError)
	}

	errorResponse := model.ErrorResponse{Error: message, Data: data}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
