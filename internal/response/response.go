package response

import (
	"errors"
	"strings"
	"time"
)

// FieldSeparator separates fields in a decrypted response body.
const FieldSeparator = "&"

// Field is one named entry of a response.
type Field struct {
	Name  string
	Value Value
}

// Response is a decrypted server response: its fields in server order and
// the local instant at which it was received.
type Response struct {
	fields     []Field
	receivedAt time.Time
}

// New builds a response from already split fields.
func New(fields []Field, receivedAt time.Time) *Response {
	return &Response{fields: fields, receivedAt: receivedAt}
}

// FromPairs builds a response from name/value pairs given as alternating
// strings. Order is preserved. Mostly used by tests and tools.
func FromPairs(receivedAt time.Time, pairs ...string) *Response {
	fields := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields = append(fields, Field{Name: pairs[i], Value: NewValue(pairs[i+1])})
	}
	return New(fields, receivedAt)
}

// Parse splits a decrypted body of the form "name:value&name:value".
// Names keep everything before the first ':'; a sub-key suffix introduced by
// '.' or '(' is stripped. A part without ':' becomes a field with an empty value.
func Parse(body string, receivedAt time.Time) (*Response, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("empty response body")
	}

	parts := strings.Split(body, FieldSeparator)
	fields := make([]Field, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		name, val, _ := strings.Cut(part, ":")
		name = normalizeName(name)
		if name == "" {
			continue
		}
		fields = append(fields, Field{Name: name, Value: NewValue(val)})
	}
	if len(fields) == 0 {
		return nil, errors.New("response body has no fields")
	}
	return New(fields, receivedAt), nil
}

func normalizeName(name string) string {
	if i := strings.IndexAny(name, ".("); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Fields returns all fields in server order.
func (r *Response) Fields() []Field {
	return r.fields
}

// Get returns the first field with the given name.
func (r *Response) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// ReceivedAt is the local instant the response arrived.
func (r *Response) ReceivedAt() time.Time {
	return r.receivedAt
}
