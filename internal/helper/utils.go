package helper

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// NewInvocationID returns a random id used to correlate the log lines of one run.
func NewInvocationID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

// PrettyPrint writes v as indented JSON.
func PrettyPrint(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error pretty printing: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
