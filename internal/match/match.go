// Package match filters event messages with a JMESPath expression.
package match

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jmespath/go-jmespath"
)

// Matcher evaluates a compiled JMESPath expression against messages.
type Matcher struct {
	expr string
	jp   *jmespath.JMESPath
}

// Compile parses expr. The message is decoded as JSON when possible,
// otherwise it is wrapped as {"message": raw}, so "message" matches any
// plain-text event.
func Compile(expr string) (*Matcher, error) {
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid match expression %q: %w", expr, err)
	}
	return &Matcher{expr: expr, jp: jp}, nil
}

// String returns the source expression.
func (m *Matcher) String() string { return m.expr }

// Match reports whether the expression yields a non-empty, non-false
// result for message. Evaluation errors count as no match.
func (m *Matcher) Match(message string) bool {
	var input any
	var decoded any
	if err := json.Unmarshal([]byte(message), &decoded); err == nil {
		input = decoded
	} else {
		input = map[string]any{"message": message}
	}
	res, err := m.jp.Search(input)
	if err != nil {
		return false
	}
	return truthy(res)
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}
