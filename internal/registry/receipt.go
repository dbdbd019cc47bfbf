package registry

import (
	"encoding/json"
	"math"
)

// Receipt is a successful registry response.
type Receipt struct {
	Status int
	// Body is the decoded JSON object, nil when the body was not an object.
	Body map[string]any
	// Raw is the response body as received.
	Raw string
}

func newReceipt(status int, data []byte) *Receipt {
	r := &Receipt{Status: status, Raw: string(data)}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err == nil {
		r.Body = obj
	}
	return r
}

// Message returns the registry's message field.
func (r *Receipt) Message() string {
	s, _ := r.Body["message"].(string)
	return s
}

// SolutionsConsolidated returns the solutions_consolidated count, 0 when absent.
func (r *Receipt) SolutionsConsolidated() int {
	switch v := r.Body["solutions_consolidated"].(type) {
	case float64:
		if v > 0 && v < math.MaxInt32 {
			return int(v)
		}
	case json.Number:
		n, err := v.Int64()
		if err == nil && n > 0 {
			return int(n)
		}
	}
	return 0
}
