package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/todo"
)

// errorResponse is the JSON body printed for failed service operations.
type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

func newErrorResponse(err todo.IAPIError) errorResponse {
	return errorResponse{
		Code:    err.ErrorCode(),
		Message: err.Message(),
		Status:  err.HTTPStatus(),
		Details: err.Details(),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readData resolves a --data flag. "@path" reads a file and "@-" reads in.
func readData(flag string, in io.Reader) ([]byte, error) {
	switch {
	case flag == "@-":
		return io.ReadAll(in)
	case strings.HasPrefix(flag, "@"):
		return os.ReadFile(flag[1:])
	case strings.TrimSpace(flag) == "":
		return []byte("{}"), nil
	default:
		return []byte(flag), nil
	}
}

// decodeData decodes a request body strictly. Unknown fields are rejected so
// a typo never turns into a silent NoOp.
func decodeData[T any](flag string, in io.Reader) (T, error) {
	var v T

	data, err := readData(flag, in)
	if err != nil {
		return v, fmt.Errorf("failed to read --data: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, todo.NewBadRequestError(fmt.Sprintf("invalid --data: %v", err))
	}
	return v, nil
}

func parseUUIDFlag(name, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, todo.NewBadRequestError(fmt.Sprintf("--%s is required", name))
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, todo.NewBadRequestError(fmt.Sprintf("invalid --%s: %v", name, err))
	}
	return id, nil
}

func parseUUIDList(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			return nil, todo.NewBadRequestError(fmt.Sprintf("invalid tag id %q: %v", v, err))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
