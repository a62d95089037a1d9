package gateway

import (
	"encoding/json"

	"github.com/accesosen/sadi-client/internal/core/domain"
)

// envelope is the DRF pagination shape some list endpoints use.
type envelope[T any] struct {
	Count    int             `json:"count"`
	Next     json.RawMessage `json:"next"`
	Previous json.RawMessage `json:"previous"`
	Results  []T             `json:"results"`
}

// normalizeList decodes a list payload that may be either a bare JSON array
// or a {count,next,previous,results} envelope into the canonical List shape.
// The backend is inconsistent across endpoints; the ambiguity stops here.
func normalizeList[T any](raw []byte) (domain.List[T], error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return domain.List[T]{Items: items, Total: len(items)}, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.List[T]{}, err
	}
	return domain.List[T]{Items: env.Results, Total: env.Count}, nil
}
