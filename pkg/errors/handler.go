package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"orgconfig/pkg/common"

	"go.uber.org/zap"
)

const genericInternalMessage = "An unexpected error occurred"

// ErrorResponse is the failure envelope sent to API clients
type ErrorResponse struct {
	Success    bool                   `json:"success"`
	Error      string                 `json:"error"`
	Code       string                 `json:"code"`
	Details    map[string]interface{} `json:"details,omitempty"`
	ValidTypes []string               `json:"validTypes,omitempty"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler. When debug is true, internal
// detail (original message, stack) is included in 5xx responses.
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	appErr := GetAppError(err)
	if appErr == nil {
		appErr = NewInternalError(genericInternalMessage).WithCause(err)
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	response := ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Type),
	}
	if len(appErr.Details) > 0 {
		response.Details = make(map[string]interface{}, len(appErr.Details))
		for k, v := range appErr.Details {
			if k == "validTypes" {
				if types, ok := v.([]string); ok {
					response.ValidTypes = types
					continue
				}
			}
			response.Details[k] = v
		}
	}

	if status >= http.StatusInternalServerError {
		if h.debug {
			if response.Details == nil {
				response.Details = make(map[string]interface{})
			}
			if appErr.Cause != nil {
				response.Details["originalError"] = appErr.Cause.Error()
			}
			if appErr.StackTrace != "" {
				response.Details["stack"] = appErr.StackTrace
			}
		} else if appErr.Type == ErrorTypeInternal {
			response.Error = genericInternalMessage
		}
	}
	if len(response.Details) == 0 {
		response.Details = nil
	}

	h.logError(r, appErr, status)
	h.sendJSON(w, status, response)
}

// HandleStatus sends a failure envelope for a status without an AppError (e.g. 405)
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	fields := append(requestFields(r, status), zap.String("code", code))
	h.logger.Warn(message, fields...)

	h.sendJSON(w, status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// logError logs an application error with appropriate level
func (h *ErrorHandler) logError(r *http.Request, err *AppError, status int) {
	fields := append(requestFields(r, status), zap.String("error_type", string(err.Type)))

	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	switch {
	case status >= 500:
		h.logger.Error(err.Message, fields...)
	case status >= 400:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Info(err.Message, fields...)
	}
}

// requestFields identifies the failed request in logs.
func requestFields(r *http.Request, status int) []zap.Field {
	meta := common.RequestMetaFrom(r.Context())
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", meta.ID),
		zap.Duration("duration", meta.Elapsed()),
	}
}

func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Middleware returns an HTTP middleware that turns panics into 500 responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.Handle(w, r, NewInternalError(genericInternalMessage).WithCause(fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
