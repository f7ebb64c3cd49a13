package apiclient

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
)

// pagedBody accepts either a paged envelope or a bare JSON array of items
type pagedBody[T any] struct {
	result domain.PagedResult[T]
}

func (p *pagedBody[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return errors.Wrap(err, "decode item list")
		}
		p.result = domain.PagedResult[T]{Items: items, Total: len(items), Limit: len(items), Unpaged: true}
		return nil
	}
	if err := json.Unmarshal(trimmed, &p.result); err != nil {
		return errors.Wrap(err, "decode paged result")
	}
	if p.result.Items == nil {
		p.result.Items = []T{}
	}
	return nil
}
