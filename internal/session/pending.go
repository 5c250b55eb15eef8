// Package session keeps the admin's pending edit per chat between a prompt
// and the free-text reply that answers it.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/m3rciful/carta/internal/catalog"
)

// Kind names the step a free-text reply is answering.
type Kind string

const (
	KindPrice    Kind = "price"
	KindName     Kind = "name"
	KindDesc     Kind = "desc"
	KindAdd      Kind = "add"
	KindAddPrice Kind = "addprice"
)

// ErrMalformed is returned by Decode for tags it cannot read.
var ErrMalformed = errors.New("session: malformed tag")

// Pending is the edit waiting for the chat's next message.
type Pending struct {
	Kind     Kind
	Category catalog.Category
	// Locator is set for price, name and desc.
	Locator string
	// Names carries the names collected by the first add step.
	Names catalog.Triple
	// ExpiresAt is filled by the store on Get.
	ExpiresAt time.Time
}

// Ref addresses the product being edited.
func (p Pending) Ref() catalog.Ref {
	return catalog.Ref{Category: p.Category, Locator: p.Locator}
}

// Encode renders p as a colon-separated tag:
//
//	price:<cat>:<loc>  name:<cat>:<loc>  desc:<cat>:<loc>
//	add:<cat>          addprice:<cat>:<es>:<en>:<ca>
//
// Categories use their short code; free text is query-escaped.
func Encode(p Pending) (string, error) {
	code := p.Category.Code()
	if code == "" {
		return "", fmt.Errorf("session: %w", catalog.ErrUnknownCategory)
	}
	switch p.Kind {
	case KindPrice, KindName, KindDesc:
		if p.Locator == "" {
			return "", fmt.Errorf("session: %s without locator", p.Kind)
		}
		return join(string(p.Kind), code, url.QueryEscape(p.Locator)), nil
	case KindAdd:
		return join(string(p.Kind), code), nil
	case KindAddPrice:
		return join(string(p.Kind), code,
			url.QueryEscape(p.Names.ES), url.QueryEscape(p.Names.EN), url.QueryEscape(p.Names.CA)), nil
	}
	return "", fmt.Errorf("session: unknown kind %q", p.Kind)
}

// Decode parses a tag produced by Encode.
func Decode(tag string) (Pending, error) {
	parts := strings.Split(tag, ":")
	if len(parts) < 2 {
		return Pending{}, ErrMalformed
	}
	cat, ok := catalog.CategoryByCode(parts[1])
	if !ok {
		return Pending{}, fmt.Errorf("%w: category %q", ErrMalformed, parts[1])
	}
	p := Pending{Kind: Kind(parts[0]), Category: cat}
	args, err := unescape(parts[2:])
	if err != nil {
		return Pending{}, err
	}
	switch p.Kind {
	case KindPrice, KindName, KindDesc:
		if len(args) != 1 || args[0] == "" {
			return Pending{}, ErrMalformed
		}
		p.Locator = args[0]
	case KindAdd:
		if len(args) != 0 {
			return Pending{}, ErrMalformed
		}
	case KindAddPrice:
		if len(args) != 3 {
			return Pending{}, ErrMalformed
		}
		p.Names = catalog.Triple{ES: args[0], EN: args[1], CA: args[2]}
	default:
		return Pending{}, fmt.Errorf("%w: kind %q", ErrMalformed, parts[0])
	}
	return p, nil
}

func join(parts ...string) string { return strings.Join(parts, ":") }

func unescape(parts []string) ([]string, error) {
	out := make([]string, len(parts))
	for i, s := range parts {
		v, err := url.QueryUnescape(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		out[i] = v
	}
	return out, nil
}
