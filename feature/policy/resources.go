package policy

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"url-policy-sync/core/reconcile"
	"url-policy-sync/core/transport"
)

const (
	denylistPath  = "/security/advanced/blacklistUrls"
	allowlistPath = "/security"
	categoryPath  = "/urlCategories/"
	activatePath  = "/status/activate"
)

// Caller executes one logical remote call.
type Caller interface {
	Do(ctx context.Context, method, path string, body any) (*transport.Response, error)
}

// resource is the shared read/write logic of every remote list.
type resource struct {
	target Target
	client Caller
	path   string
	fields []string
	// fallback builds the payload when the fetched shape was unreadable.
	// Nil means such a list is never overwritten.
	fallback func(entries []string) any
}

func (r *resource) Name() string {
	return r.target.String()
}

// Fetch reads the list. HTTP errors surface as *transport.ApplicationError,
// an unreadable body as an empty list with ShapeErr set.
func (r *resource) Fetch(ctx context.Context) (*reconcile.PolicyList, error) {
	resp, err := r.client.Do(ctx, http.MethodGet, r.path, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(http.MethodGet, r.path); err != nil {
		return nil, err
	}

	list := &reconcile.PolicyList{Target: r.Name()}

	ext, err := reconcile.ExtractList(resp.Body, r.fields...)
	if err != nil {
		var shapeErr *reconcile.ShapeError
		if !errors.As(err, &shapeErr) {
			return nil, err
		}
		list.ShapeErr = err
		list.Entries = reconcile.Normalize(nil)
		return list, nil
	}

	list.Entries = reconcile.Normalize(ext.Entries)
	list.Carrier = ext.Carrier
	return list, nil
}

// Write submits merged, echoing every other field of the fetched object.
func (r *resource) Write(ctx context.Context, list *reconcile.PolicyList, merged []string) (*transport.Response, error) {
	var body any
	if list.Carrier.Known() {
		payload, err := list.Carrier.Payload(merged)
		if err != nil {
			return nil, err
		}
		body = payload
	} else {
		if r.fallback == nil {
			return nil, reconcile.ErrNoCarrier
		}
		body = r.fallback(merged)
	}

	return r.client.Do(ctx, http.MethodPut, r.path, body)
}

// Denylist is the advanced-settings denylist. It is read as a bare array or
// as {"blacklistUrls": [...]} and written back in the same shape.
type Denylist struct {
	resource
}

// NewDenylist creates the denylist adapter.
func NewDenylist(client Caller) *Denylist {
	return &Denylist{resource{
		target: Target{Kind: KindDenylist},
		client: client,
		path:   denylistPath,
		fields: []string{"blacklistUrls"},
		fallback: func(entries []string) any {
			return entries
		},
	}}
}

// Allowlist lives in the security settings object, which is written back
// whole. The list field has had several names.
type Allowlist struct {
	resource
}

// NewAllowlist creates the allowlist adapter.
func NewAllowlist(client Caller) *Allowlist {
	return &Allowlist{resource{
		target: Target{Kind: KindAllowlist},
		client: client,
		path:   allowlistPath,
		fields: []string{"allowlistUrls", "allowlist_urls", "whitelistUrls"},
	}}
}

// Category is a custom URL category, written back whole.
type Category struct {
	resource
}

// NewCategory creates the adapter of one URL category.
func NewCategory(client Caller, id string) *Category {
	return &Category{resource{
		target: Target{Kind: KindCategory, CategoryID: id},
		client: client,
		path:   categoryPath + url.PathEscape(id),
		fields: []string{"urls"},
	}}
}

// AlreadyPresent reports the duplicate rejection returned when every
// submitted URL already belongs to a category.
func (c *Category) AlreadyPresent(resp *transport.Response) bool {
	if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusConflict {
		return false
	}
	body := strings.ToLower(string(resp.Body))
	return strings.Contains(body, "duplicate_item") || strings.Contains(body, "already exist")
}

// NewAdapter returns the adapter of target.
func NewAdapter(client Caller, target Target) reconcile.Adapter {
	switch target.Kind {
	case KindAllowlist:
		return NewAllowlist(client)
	case KindCategory:
		return NewCategory(client, target.CategoryID)
	default:
		return NewDenylist(client)
	}
}
