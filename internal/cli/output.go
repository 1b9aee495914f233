package cli

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/kbukum/jsonrest/httpclient/rest"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printServiceError writes the status line and the decoded envelope.
func printServiceError(w io.Writer, se *rest.ServiceError) {
	fmt.Fprintf(w, "HTTP %d %s\n", se.StatusCode, se.StatusDescription)
	if code := se.ErrorCode(); code != "" {
		fmt.Fprintf(w, "errorCode: %s\n", code)
	}
	fmt.Fprintf(w, "message:   %s\n", se.ErrorMessage())
	for _, fe := range se.FieldErrors() {
		if fe.ErrorCode != "" {
			fmt.Fprintf(w, "  %s: %s (%s)\n", fe.FieldName, fe.Message, fe.ErrorCode)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", fe.FieldName, fe.Message)
	}
}
