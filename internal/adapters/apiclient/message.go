package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// DefaultMessagePath selects the user-facing message in an error body.
const DefaultMessagePath = "message"

// messageExtractor pulls the user-facing message out of an arbitrary error
// body with a JMESPath expression.
type messageExtractor struct {
	expr string
}

func newMessageExtractor(expr string) (messageExtractor, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultMessagePath
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return messageExtractor{}, fmt.Errorf("compile message path %q: %w", expr, err)
	}
	return messageExtractor{expr: expr}, nil
}

// Extract returns the selected message or "" when the body is not JSON or the
// expression does not resolve to a non-empty string.
func (m messageExtractor) Extract(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	res, err := jmespath.Search(m.expr, doc)
	if err != nil {
		return ""
	}
	s, ok := res.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
