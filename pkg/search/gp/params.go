package gp

import (
	"encoding/json"
	"strings"
)

// paramsString renders a resolved Params as JSON for Sink.Parameters,
// mirroring the teacher's Limits.String() diagnostic.
func paramsString(p Params) string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(p)
	return builder.String()
}
