package binance

import (
	"fmt"
	"strings"
)

// APIError is an error the exchange reported, either as a JSON error
// body or as a bare HTTP failure with no decodable payload.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`

	// HTTPStatus is the transport status code the error arrived with,
	// 0 when the error came from a decodable 2xx payload.
	HTTPStatus int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange error %d: %s", e.Code, e.Message)
}

// transientSignatures is the load-bearing substring set identifying a
// transient gateway fault in the exchange's error message. Changing it
// changes which failures get retried.
var transientSignatures = []string{"502", "503", "504", "Bad Gateway"}

// Transient reports whether the error looks like a passing exchange
// gateway fault worth retrying. The message substrings are consulted
// first; the HTTP status only decides when the response carried no
// exchange error payload.
func (e *APIError) Transient() bool {
	for _, sig := range transientSignatures {
		if strings.Contains(e.Message, sig) {
			return true
		}
	}
	if e.Code == 0 {
		switch e.HTTPStatus {
		case 502, 503, 504:
			return true
		}
	}
	return false
}
