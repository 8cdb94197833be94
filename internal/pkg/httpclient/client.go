package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// New returns a resty client with the bot's default timeout and retry policy.
// Only transport failures and 5xx/429 responses are retried.
func New(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			code := r.StatusCode()
			return code == 429 || code >= 500
		})
}
