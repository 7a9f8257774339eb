// internal/browser/cdp/eval.go
package cdp

import (
	"encoding/json"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// scriptJSON keeps markup in the generated expression readable in logs.
var scriptJSON = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// envelope wraps script results so that undefined and null come back as a
// JSON value instead of an evaluation error.
type envelope struct {
	Value json.RawMessage `json:"value"`
}

// applyExpression builds an expression that calls the function declaration
// fn with args decoded from JSON. The result is always a promise resolving to
// an envelope.
func applyExpression(fn string, args []interface{}) (string, error) {
	if args == nil {
		args = []interface{}{}
	}
	encoded, err := scriptJSON.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode script arguments: %w", err)
	}
	var b strings.Builder
	b.WriteString("Promise.resolve((")
	b.WriteString(strings.TrimSpace(fn))
	b.WriteString(").apply(null, ")
	b.Write(encoded)
	b.WriteString(")).then(function (v) { return { value: v === undefined ? null : v }; })")
	return b.String(), nil
}

func unwrap(raw json.RawMessage) (json.RawMessage, error) {
	var env envelope
	if err := scriptJSON.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode script result: %w", err)
	}
	if len(env.Value) == 0 {
		return json.RawMessage("null"), nil
	}
	return env.Value, nil
}
