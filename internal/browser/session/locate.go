package session

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// RefAttribute is the attribute the locator script stamps on matched elements.
const RefAttribute = "data-cmsbehave-ref"

// SelectorKind names a lookup strategy understood by the locator script.
type SelectorKind string

const (
	// KindCSS matches a plain CSS selector.
	KindCSS SelectorKind = "css"
	// KindField matches form fields by id, name, label text or placeholder.
	KindField SelectorKind = "field"
	// KindLinkOrButton matches links and buttons by id, value, title, text or image alt.
	KindLinkOrButton SelectorKind = "link_or_button"
)

// Selector describes what FindAll should look for.
type Selector struct {
	Kind    SelectorKind
	Locator string
}

func (s Selector) String() string {
	return fmt.Sprintf("%s=%s", s.Kind, strconv.Quote(s.Locator))
}

// LocateScript is the function declaration both drivers evaluate to resolve
// a Selector. It is called with (kind, locator, refAttr, refPrefix) and
// returns [{ref, tag}] in document order.
//
//go:embed js/locate.js
var LocateScript string

// Located is one element reported by LocateScript.
type Located struct {
	Ref string `json:"ref"`
	Tag string `json:"tag"`
}

// Selector returns the CSS selector addressing the located element.
func (l Located) Selector() string {
	return RefSelector(l.Ref)
}

// RefSelector builds the CSS selector for a ref stamped by LocateScript.
func RefSelector(ref string) string {
	return fmt.Sprintf("[%s=%s]", RefAttribute, strconv.Quote(ref))
}

// Evaluator is the subset of Page needed to run the locator script.
type Evaluator interface {
	Evaluate(ctx context.Context, fn string, args ...interface{}) (json.RawMessage, error)
}

// Locate runs LocateScript through ev and decodes the result. Elements that
// were located before keep their existing ref.
func Locate(ctx context.Context, ev Evaluator, sel Selector) ([]Located, error) {
	raw, err := ev.Evaluate(ctx, LocateScript, string(sel.Kind), sel.Locator, RefAttribute, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", sel, err)
	}
	var found []Located
	if err := jsoniter.Unmarshal(raw, &found); err != nil {
		return nil, fmt.Errorf("failed to decode locator result for %s: %w", sel, err)
	}
	return found, nil
}
