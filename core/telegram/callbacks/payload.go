// Package callbacks encodes and decodes inline button data of the form
// tag:arg1:arg2..., kept within Telegram's 64-byte callback_data limit.
package callbacks

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// MaxDataLen is Telegram's callback_data limit in bytes.
const MaxDataLen = 64

// Payload is decoded button data.
type Payload struct {
	Tag  string
	Args []string
}

// Parse splits data on colons.
func Parse(data string) Payload {
	parts := strings.Split(strings.TrimSpace(data), ":")
	return Payload{Tag: parts[0], Args: parts[1:]}
}

// FromContext parses the data of the callback carried by c.
func FromContext(c tele.Context) Payload {
	cb := c.Callback()
	if cb == nil {
		return Payload{}
	}
	return Parse(cb.Data)
}

// Arg returns the i-th argument or "".
func (p Payload) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// String re-encodes p.
func (p Payload) String() string {
	return strings.Join(append([]string{p.Tag}, p.Args...), ":")
}

// Encode joins tag and args, failing when a part holds a colon or the
// result exceeds MaxDataLen.
func Encode(tag string, args ...string) (string, error) {
	if tag == "" {
		return "", fmt.Errorf("callbacks: empty tag")
	}
	for _, a := range append([]string{tag}, args...) {
		if strings.Contains(a, ":") {
			return "", fmt.Errorf("callbacks: %q contains a separator", a)
		}
	}
	data := Payload{Tag: tag, Args: args}.String()
	if len(data) > MaxDataLen {
		return "", fmt.Errorf("callbacks: %q is %d bytes, limit %d", data, len(data), MaxDataLen)
	}
	return data, nil
}

// MustEncode is Encode for fixed payloads; it panics on error.
func MustEncode(tag string, args ...string) string {
	data, err := Encode(tag, args...)
	if err != nil {
		panic(err)
	}
	return data
}
