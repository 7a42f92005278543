package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the result of Client.Do. It is either a *LiveResponse from the
// network or a *SyntheticResponse produced in dry-run mode.
type Response interface {
	StatusCode() int
	Header() http.Header
	Body() []byte
	// Synthetic reports whether the response was fabricated without a network call.
	Synthetic() bool

	sealed()
}

// LiveResponse is a response received from the provider.
type LiveResponse struct {
	status int
	header http.Header
	body   []byte
}

// StatusCode returns the HTTP status code.
func (r *LiveResponse) StatusCode() int { return r.status }

// Header returns the response headers.
func (r *LiveResponse) Header() http.Header { return r.header }

// Body returns the raw response body.
func (r *LiveResponse) Body() []byte { return r.body }

// Synthetic always returns false.
func (*LiveResponse) Synthetic() bool { return false }

func (*LiveResponse) sealed() {}

// SyntheticResponse is a dry-run response with a fabricated JSON body.
type SyntheticResponse struct {
	body []byte
}

// NewSyntheticResponse marshals payload as the body of a 200 response.
func NewSyntheticResponse(payload any) (*SyntheticResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling synthetic response: %w", err)
	}
	return &SyntheticResponse{body: body}, nil
}

// StatusCode always returns 200.
func (*SyntheticResponse) StatusCode() int { return http.StatusOK }

// Header returns an empty header set.
func (*SyntheticResponse) Header() http.Header { return http.Header{} }

// Body returns the fabricated JSON body.
func (r *SyntheticResponse) Body() []byte { return r.body }

// Synthetic always returns true.
func (*SyntheticResponse) Synthetic() bool { return true }

func (*SyntheticResponse) sealed() {}

// DecodeJSON unmarshals the response body into v. An empty body leaves v untouched.
func DecodeJSON(resp Response, v any) error {
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
