package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/querypilot/querypilot/core/infrastructure/logging"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/dto"
	"github.com/querypilot/querypilot/core/shared/errors"
)

var validate = validator.New()

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	logger logging.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(tag string) *BaseHandler {
	return &BaseHandler{
		logger: logging.New(tag),
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// WriteError maps component errors to HTTP statuses and writes the
// textual message
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewAppError(errors.ErrCodeInternalError, err.Error(), err)
	}

	h.WriteJSON(w, appErr.Status, dto.ErrorResponse{
		Success: false,
		Code:    string(appErr.Code),
		Error:   appErr.Message,
	})
}

// Bind decodes the request body into dst and validates it. On failure a
// 400 response is written and false returned.
func (h *BaseHandler) Bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidInput, "invalid JSON body", err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		details := []dto.ErrorDetail{}
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, validationErr := range validationErrs {
				details = append(details, dto.ErrorDetail{
					Field:   validationErr.Field(),
					Tag:     validationErr.Tag(),
					Message: "Validation failed",
				})
			}
		}
		h.WriteJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Success: false,
			Error:   "Validation failed",
			Details: details,
		})
		return false
	}

	return true
}

// WriteSuccess writes a success response
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, data any) {
	h.WriteJSON(w, http.StatusOK, data)
}
