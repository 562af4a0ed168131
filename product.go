package stripekit

import (
	"context"
	"encoding/json"
)

// Product is the Product resource from Stripe.
type Product struct {
	ID          string    `json:"id"`
	Object      string    `json:"object"`
	Active      bool      `json:"active"`
	Created     Timestamp `json:"created"`
	Livemode    bool      `json:"livemode"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Metadata    Metadata  `json:"metadata"`
}

type productBuilder struct {
	out      Product
	id       *string
	active   *bool
	created  *Timestamp
	livemode *bool
	name     *string
}

func (b *productBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		b.out.Object, err = decodeString(name, raw)
	case "active":
		var v bool
		if v, err = decodeBool(name, raw); err == nil {
			b.active = &v
		}
	case "created":
		var v Timestamp
		if v, err = decodeTimestamp(name, raw); err == nil {
			b.created = &v
		}
	case "livemode":
		var v bool
		if v, err = decodeBool(name, raw); err == nil {
			b.livemode = &v
		}
	case "name":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.name = &v
		}
	case "description":
		b.out.Description, err = decodeNullString(name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *productBuilder) finish() (*Product, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.active == nil:
		return nil, errMissing("active")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.name == nil:
		return nil, errMissing("name")
	}

	b.out.ID = *b.id
	b.out.Active = *b.active
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	b.out.Name = *b.name
	return &b.out, nil
}

func (p *Product) UnmarshalJSON(data []byte) error {
	b := productBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*p = *out
	return nil
}

// ProductParams are the parameters for creating or updating a Product.
type ProductParams struct {
	Name        *string  `form:"name"`
	Active      *bool    `form:"active"`
	Description *string  `form:"description"`
	Metadata    Metadata `form:"metadata"`
	Expand      []string `form:"expand"`
}

// ProductListParams are the parameters for listing Products.
type ProductListParams struct {
	ListParams
	Active  *bool       `form:"active"`
	Created *RangeQuery `form:"created"`
}

var (
	productCreate   = Endpoint{"POST", "/v1/products"}
	productRetrieve = Endpoint{"GET", "/v1/products/{product}"}
	productUpdate   = Endpoint{"POST", "/v1/products/{product}"}
	productDelete   = Endpoint{"DELETE", "/v1/products/{product}"}
	productList     = Endpoint{"GET", "/v1/products"}
)

// CreateProduct creates a new Product.
func CreateProduct(ctx context.Context, c *Client, params *ProductParams, opts ...CallOption) (*Product, error) {
	p := &Product{}

	if err := c.Call(ctx, productCreate, nil, params, p, opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// RetrieveProduct gets the Product with the given ID. The returned value
// reports whether the product has been deleted.
func RetrieveProduct(ctx context.Context, c *Client, id string, opts ...CallOption) (*DeletedOr[Product], error) {
	p := &DeletedOr[Product]{}

	err := c.Call(ctx, productRetrieve, map[string]string{"product": id}, nil, p, opts...)

	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct updates the Product with the given ID.
func UpdateProduct(ctx context.Context, c *Client, id string, params *ProductParams, opts ...CallOption) (*Product, error) {
	p := &Product{}

	err := c.Call(ctx, productUpdate, map[string]string{"product": id}, params, p, opts...)

	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct deletes the Product with the given ID.
func DeleteProduct(ctx context.Context, c *Client, id string, opts ...CallOption) (*Deleted, error) {
	d := &Deleted{}

	err := c.Call(ctx, productDelete, map[string]string{"product": id}, nil, d, opts...)

	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListProducts returns a pager over the product collection.
func ListProducts(ctx context.Context, c *Client, params *ProductListParams) *Iter[Product] {
	if params == nil {
		params = &ProductListParams{}
	}
	return newIter(ctx, c, productList, nil, params, func(p *Product) string { return p.ID })
}
