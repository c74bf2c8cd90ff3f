package errors

import "net/http"

// ErrorResp is the error type surfaced to handlers. The code maps straight to
// the HTTP response status.
type ErrorResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResp) Error() string {
	return e.Message
}

func BadRequest(message string) error {
	return &ErrorResp{Code: http.StatusBadRequest, Message: message}
}

func UnauthorizedError(message string) error {
	return &ErrorResp{Code: http.StatusUnauthorized, Message: message}
}

func ForbiddenError(message string) error {
	return &ErrorResp{Code: http.StatusForbidden, Message: message}
}

func NotFound(message string) error {
	return &ErrorResp{Code: http.StatusNotFound, Message: message}
}

func Conflict(message string) error {
	return &ErrorResp{Code: http.StatusConflict, Message: message}
}

func InternalServerError(message string) error {
	return &ErrorResp{Code: http.StatusInternalServerError, Message: message}
}

func BadGateway(message string) error {
	return &ErrorResp{Code: http.StatusBadGateway, Message: message}
}

// HttpCode returns the HTTP status carried by err, defaulting to 500 for
// error values that did not come from this package.
func HttpCode(err error) int {
	if resp, ok := err.(*ErrorResp); ok {
		return resp.Code
	}
	return http.StatusInternalServerError
}
