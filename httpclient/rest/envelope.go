package rest

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/kbukum/jsonrest/httpclient"
)

const responseStatusKey = "responseStatus"

// ResponseStatus is the standardized error envelope found under the
// "responseStatus" key of a failed response.
type ResponseStatus struct {
	ErrorCode  string            `json:"errorCode,omitempty"`
	Message    string            `json:"message,omitempty"`
	StackTrace string            `json:"stackTrace,omitempty"`
	Errors     []ResponseError   `json:"errors,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// ResponseError is a field-level error inside a ResponseStatus.
type ResponseError struct {
	ErrorCode string            `json:"errorCode,omitempty"`
	FieldName string            `json:"fieldName,omitempty"`
	Message   string            `json:"message,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// DecodePayload parses a success body. An empty or blank body yields an
// empty map. Objects decode to map[string]any, arrays to []any, numbers to
// float64. Invalid JSON is a *DecodeError.
func DecodePayload(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Body: body, Err: err}
	}
	return payload, nil
}

// Classify builds the ServiceError for a non-success response. statusText
// may be a full status line ("400 Bad Request"); the code is stripped and an
// empty text falls back to the standard reason phrase. The envelope is set
// only when the body is a JSON object with a "responseStatus" object.
func Classify(statusCode int, statusText string, body []byte) *ServiceError {
	resp := httpclient.Response{StatusCode: statusCode, Status: statusText}
	return &ServiceError{
		StatusCode:        statusCode,
		StatusDescription: resp.StatusText(),
		ResponseStatus:    parseEnvelope(body),
		Body:              body,
	}
}

func parseEnvelope(body []byte) *ResponseStatus {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	raw, ok := lookupKey(doc, responseStatusKey).(map[string]any)
	if !ok {
		return nil
	}
	return newResponseStatus(raw)
}

func newResponseStatus(m map[string]any) *ResponseStatus {
	rs := &ResponseStatus{
		ErrorCode:  stringField(m, "errorCode"),
		Message:    stringField(m, "message"),
		StackTrace: stringField(m, "stackTrace"),
		Meta:       stringMap(lookupKey(m, "meta")),
	}
	if items, ok := lookupKey(m, "errors").([]any); ok {
		for _, item := range items {
			fe, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rs.Errors = append(rs.Errors, ResponseError{
				ErrorCode: stringField(fe, "errorCode"),
				FieldName: stringField(fe, "fieldName"),
				Message:   stringField(fe, "message"),
				Meta:      stringMap(lookupKey(fe, "meta")),
			})
		}
	}
	return rs
}

// lookupKey finds key exactly, then case-insensitively.
func lookupKey(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	switch v := lookupKey(m, key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return queryValue(v)
	}
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if val == nil {
			out[k] = ""
			continue
		}
		if s, ok := val.(string); ok {
			out[k] = s
			continue
		}
		out[k] = queryValue(val)
	}
	return out
}
