package models

import (
	"bytes"
	"encoding/json"
)

// Page is one page of a paginated list. The API reports pagination either at
// the top level or under "meta"; Normalize folds the latter into the former.
type Page[T any] struct {
	Data        []T       `json:"data"`
	CurrentPage int       `json:"current_page"`
	LastPage    int       `json:"last_page"`
	Total       int       `json:"total"`
	Meta        *PageMeta `json:"meta,omitempty"`
}

type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// Normalize copies pagination from Meta when the top-level fields are empty.
func (p *Page[T]) Normalize() {
	if p.Meta != nil && p.CurrentPage == 0 {
		p.CurrentPage = p.Meta.CurrentPage
		p.LastPage = p.Meta.LastPage
		p.Total = p.Meta.Total
	}
	p.Meta = nil
	if p.CurrentPage == 0 {
		p.CurrentPage = 1
	}
	if p.LastPage < p.CurrentPage {
		p.LastPage = p.CurrentPage
	}
}

// Envelope is the {"data": [...]} wrapper used by the admin listing endpoints.
type Envelope[T any] struct {
	Data []T `json:"data"`
}

// List decodes either a bare JSON array or a {"data": [...]} envelope; the
// user endpoints return the former, the admin ones the latter.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var env Envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return err
	}
	*l = env.Data
	return nil
}
