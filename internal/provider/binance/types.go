package binance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx reply from the exchange.
type APIError struct {
	Status int    // HTTP status
	Code   int    `json:"code"` // exchange error code, 0 when the body was not JSON
	Msg    string `json:"msg"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("binance: HTTP %d: code %d: %s", e.Status, e.Code, e.Msg)
	}
	return fmt.Sprintf("binance: HTTP %d: %s", e.Status, e.Msg)
}

// Banned reports the 418 auto-ban reply; retrying only extends the ban.
func (e *APIError) Banned() bool { return e.Status == http.StatusTeapot }

// RateLimited reports a 429 reply.
func (e *APIError) RateLimited() bool { return e.Status == http.StatusTooManyRequests }

// parseAPIError decodes {"code":-1121,"msg":"Invalid symbol."}, keeping the raw text otherwise.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	if err := json.Unmarshal(body, e); err != nil || (e.Code == 0 && e.Msg == "") {
		e.Code = 0
		e.Msg = strings.TrimSpace(string(body))
		if e.Msg == "" {
			e.Msg = http.StatusText(status)
		}
	}
	return e
}
