package monitors

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type HTTPCheck struct {
	Method         string
	URL            string
	Headers        map[string]string
	ExpectedStatus int
	Timeout        time.Duration
}

// CheckHTTP issues one request and fails unless the expected status comes back.
func CheckHTTP(ctx context.Context, check HTTPCheck) error {
	client := &http.Client{
		Timeout: check.Timeout,
	}

	method := check.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, check.URL, nil)

	if err != nil {
		return err
	}

	for key, value := range check.Headers {
		req.Header.Add(key, value)
	}

	resp, err := client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	expected := check.ExpectedStatus
	if expected == 0 {
		expected = http.StatusOK
	}

	if resp.StatusCode != expected {
		return errors.New("unexpected status code: " + resp.Status)
	}

	return nil
}
