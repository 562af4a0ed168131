package stripekit

import (
	"context"
	"encoding/json"
)

// ListParams are the cursor parameters shared by every list endpoint. The
// typed per-endpoint list params embed this struct.
type ListParams struct {
	Limit         *int64   `form:"limit"`
	StartingAfter *string  `form:"starting_after"`
	EndingBefore  *string  `form:"ending_before"`
	Expand        []string `form:"expand"`
}

func (p *ListParams) listParams() *ListParams { return p }

// listable is satisfied by every parameter struct embedding ListParams, the
// pager uses it to advance the cursor between pages.
type listable interface {
	listParams() *ListParams
}

// List is the cursor-paged response envelope for collection endpoints.
type List[T any] struct {
	Object     string `json:"object"`
	Data       []T    `json:"data"`
	HasMore    bool   `json:"has_more"`
	URL        string `json:"url"`
	TotalCount *int64 `json:"total_count,omitempty"`
}

type listBuilder[T any] struct {
	object     string
	data       *[]T
	hasMore    *bool
	url        *string
	totalCount *int64
}

func (b *listBuilder[T]) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "object":
		b.object, err = decodeString(name, raw)
	case "data":
		if firstByte(raw) != '[' {
			return errType(name, "array")
		}
		var items []T
		if err = json.Unmarshal(raw, &items); err == nil {
			b.data = &items
		}
	case "has_more":
		var v bool
		if v, err = decodeBool(name, raw); err == nil {
			b.hasMore = &v
		}
	case "url":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.url = &v
		}
	case "total_count":
		b.totalCount, err = decodeNullInt64(name, raw)
	}
	return err
}

func (l *List[T]) UnmarshalJSON(b []byte) error {
	lb := listBuilder[T]{}

	if err := decodeObject(b, &lb); err != nil {
		return err
	}

	switch {
	case lb.data == nil:
		return errMissing("data")
	case lb.hasMore == nil:
		return errMissing("has_more")
	case lb.url == nil:
		return errMissing("url")
	}

	l.Object = lb.object
	l.Data = *lb.data
	l.HasMore = *lb.hasMore
	l.URL = *lb.url
	l.TotalCount = lb.totalCount
	return nil
}

// Iter is a lazy pager over a list endpoint. It fetches pages one network
// call at a time, driven only by has_more, and flattens them into a sequence
// of items. The loop is the familiar one,
//
//	it := ListCustomers(ctx, client, params)
//
//	for it.Next() {
//	    c := it.Current()
//	    ...
//	}
//
//	if err := it.Err(); err != nil {
//	    ...
//	}
//
// An Iter is serial, concurrent use needs one Iter per goroutine. Restarting
// means constructing a fresh Iter.
type Iter[T any] struct {
	ctx      context.Context
	client   *Client
	ep       Endpoint
	vars     map[string]string
	params   listable
	id       func(*T) string
	backward bool

	page    []T
	idx     int
	cur     *T
	hasMore bool
	started bool
	err     error
}

func newIter[T any](ctx context.Context, c *Client, ep Endpoint, vars map[string]string, params listable, id func(*T) string) *Iter[T] {
	return &Iter[T]{
		ctx:      ctx,
		client:   c,
		ep:       ep,
		vars:     vars,
		params:   params,
		id:       id,
		backward: params.listParams().EndingBefore != nil,
	}
}

// NextPage fetches the next page with a single network call, or returns nil
// once the previous page reported has_more false. On error the cursor is
// unchanged, calling again retries the same page and, given the same
// idempotency key, produces the same request bytes.
func (it *Iter[T]) NextPage() (*List[T], error) {
	if it.started && !it.hasMore {
		return nil, nil
	}

	var list List[T]

	if err := it.client.Call(it.ctx, it.ep, it.vars, it.params, &list); err != nil {
		return nil, err
	}

	it.started = true
	it.hasMore = list.HasMore

	if len(list.Data) > 0 {
		lp := it.params.listParams()

		if it.backward {
			first := it.id(&list.Data[0])
			lp.EndingBefore = &first
		} else {
			last := it.id(&list.Data[len(list.Data)-1])
			lp.StartingAfter = &last
		}
	}
	return &list, nil
}

// Next advances to the next item, fetching a page when the current one is
// exhausted. It returns false at the end of the collection or on error, which
// Err reports afterwards.
func (it *Iter[T]) Next() bool {
	if it.err != nil {
		return false
	}

	if it.idx < len(it.page) {
		it.cur = &it.page[it.idx]
		it.idx++
		return true
	}

	page, err := it.NextPage()

	if err != nil {
		it.err = err
		return false
	}

	if page == nil || len(page.Data) == 0 {
		return false
	}

	it.page = page.Data
	it.idx = 1
	it.cur = &it.page[0]
	return true
}

// Current returns the item Next advanced to.
func (it *Iter[T]) Current() *T { return it.cur }

// Err returns the first error the iteration hit, if any.
func (it *Iter[T]) Err() error { return it.err }
