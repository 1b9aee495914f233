package testutil

import "github.com/gin-gonic/gin"

// FieldError is a field-level entry of an Envelope.
type FieldError struct {
	ErrorCode string
	FieldName string
	Message   string
}

// Envelope describes a responseStatus error body.
type Envelope struct {
	ErrorCode  string
	Message    string
	StackTrace string
	Errors     []FieldError
	Meta       map[string]string
}

// Body renders the envelope as {"responseStatus": {...}}, omitting empty members.
func (e Envelope) Body() gin.H {
	rs := gin.H{}
	if e.ErrorCode != "" {
		rs["errorCode"] = e.ErrorCode
	}
	if e.Message != "" {
		rs["message"] = e.Message
	}
	if e.StackTrace != "" {
		rs["stackTrace"] = e.StackTrace
	}
	if len(e.Errors) > 0 {
		errs := make([]gin.H, 0, len(e.Errors))
		for _, fe := range e.Errors {
			errs = append(errs, gin.H{
				"errorCode": fe.ErrorCode,
				"fieldName": fe.FieldName,
				"message":   fe.Message,
			})
		}
		rs["errors"] = errs
	}
	if len(e.Meta) > 0 {
		rs["meta"] = e.Meta
	}
	return gin.H{"responseStatus": rs}
}
