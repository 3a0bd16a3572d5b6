// Package codec reads and writes documents in their JSON wire shape: objects
// carry "$Type" and "$ID" next to their named properties. Property order is
// preserved and numbers keep their original text.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/zeebo/xxh3"

	"mxfind/internal/domain"
)

var (
	ErrNotObject = errors.New("document root is not an object")
	ErrCycle     = errors.New("document graph contains a cycle")
)

// Header is the part of a document needed to list it without loading it
type Header struct {
	ID   string
	Type string
	Name string
}

// Decode reads one document from r
func Decode(r io.Reader) (*domain.Node, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if d, ok := tok.(j.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}
	return decodeObject(dec)
}

// DecodeBytes reads one document from b
func DecodeBytes(b []byte) (*domain.Node, error) {
	return Decode(bytes.NewReader(b))
}

func decodeObject(dec *j.Decoder) (*domain.Node, error) {
	n := &domain.Node{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}

		switch s, isString := value.(string); {
		case key == domain.TypeField && isString:
			n.Type = s
		case key == domain.IDField && isString:
			n.ID = s
		default:
			n.Props = append(n.Props, domain.Property{Name: key, Value: value})
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeValue(dec *j.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(j.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return decodeObject(dec)
	case '[':
		items := []any{}
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", d)
}

// PeekHeader reads the root's type, identifier and name, skipping nested values
func PeekHeader(r io.Reader) (Header, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()

	var h Header
	tok, err := dec.Token()
	if err != nil {
		return h, fmt.Errorf("read document: %w", err)
	}
	if d, ok := tok.(j.Delim); !ok || d != '{' {
		return h, ErrNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return h, err
		}
		key, _ := tok.(string)
		switch key {
		case domain.TypeField, domain.IDField, "name":
			var s string
			if err := dec.Decode(&s); err != nil {
				return h, fmt.Errorf("%s: %w", key, err)
			}
			switch key {
			case domain.TypeField:
				h.Type = s
			case domain.IDField:
				h.ID = s
			default:
				h.Name = s
			}
		default:
			var skip j.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return h, fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	return h, nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// NodeID derives the identifier of an ID-less node from its document and its
// JSON pointer inside that document
func NodeID(documentID, pointer string) string {
	return fmt.Sprintf("n-%016x", xxh3.HashString(documentID+"#"+pointer))
}

// AssignIDs gives the root and every nested node lacking "$ID" a stable
// identifier so changes can address them. The root takes documentID; nested
// nodes take NodeID of their pointer. Assigned IDs are flagged DerivedID and
// Encode leaves them out.
func AssignIDs(root *domain.Node, documentID string) {
	if root == nil {
		return
	}
	seen := make(map[*domain.Node]struct{})
	var visit func(n *domain.Node, pointer string)
	visit = func(n *domain.Node, pointer string) {
		if n == nil {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}

		if n.ID == "" {
			n.ID = documentID
			if pointer != "" {
				n.ID = NodeID(documentID, pointer)
			}
			n.DerivedID = true
		}
		for _, p := range n.Props {
			ptr := pointer + "/" + pointerEscaper.Replace(p.Name)
			switch v := p.Value.(type) {
			case *domain.Node:
				visit(v, ptr)
			case []any:
				for i, item := range v {
					if child, ok := item.(*domain.Node); ok {
						visit(child, ptr+"/"+strconv.Itoa(i))
					}
				}
			}
		}
	}
	visit(root, "")
}

// Encode writes n as indented JSON
func Encode(n *domain.Node) ([]byte, error) {
	var compact bytes.Buffer
	if err := encodeNode(&compact, n, make(map[*domain.Node]struct{})); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := j.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n *domain.Node, open map[*domain.Node]struct{}) error {
	if _, ok := open[n]; ok {
		return ErrCycle
	}
	open[n] = struct{}{}
	defer delete(open, n)

	buf.WriteByte('{')
	first := true
	field := func(name string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		return encodeScalar(buf, name)
	}

	if n.Type != "" {
		if err := field(domain.TypeField); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeScalar(buf, n.Type); err != nil {
			return err
		}
	}
	if n.ID != "" && !n.DerivedID {
		if err := field(domain.IDField); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeScalar(buf, n.ID); err != nil {
			return err
		}
	}
	for _, p := range n.Props {
		if err := field(p.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeValue(buf, p.Value, open); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeValue(buf *bytes.Buffer, v any, open map[*domain.Node]struct{}) error {
	switch t := v.(type) {
	case *domain.Node:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		return encodeNode(buf, t, open)
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item, open); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case j.Number:
		buf.WriteString(string(t))
		return nil
	default:
		return encodeScalar(buf, v)
	}
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	b, err := j.MarshalNoEscape(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
