package tree

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	xmldom "github.com/subchen/go-xmldom"
	"golang.org/x/net/html/charset"
)

// DeclarationKey holds the attributes of the <?xml ...?> declaration.
const DeclarationKey = "?xml"

var (
	ErrMalformed     = errors.New("document is not well-formed XML")
	ErrEmptyDocument = errors.New("document has no root element")
)

var (
	declPattern = regexp.MustCompile(`<\?xml\s[^?]*\?>`)
	declAttr    = regexp.MustCompile(`([A-Za-z:_-]+)\s*=\s*["']([^"']*)["']`)
	procInst    = regexp.MustCompile(`(?s)<\?.*?\?>`)
)

// Parse validates doc and converts it into a tree whose top level holds
// the declaration (under DeclarationKey) and the root element.
func Parse(doc string) (Node, error) {
	decl := declaration(doc)

	if enc := strings.ToLower(decl.Attr("encoding")); enc != "" && enc != "utf-8" && enc != "utf8" {
		transcoded, err := transcode(doc, enc)
		if err != nil {
			return nil, err
		}
		doc = transcoded
	}

	doc = StripProcessingInstructions(doc)
	dom, err := xmldom.ParseXML(doc)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if dom.Root == nil {
		return nil, ErrEmptyDocument
	}
	if err := singleRoot(doc); err != nil {
		return nil, err
	}

	res := Node{dom.Root.Name: convert(dom.Root)}
	if len(decl) > 0 {
		res[DeclarationKey] = decl
	}
	return res, nil
}

// Validate reports whether doc is well-formed, without keeping the tree.
func Validate(doc string) error {
	_, err := Parse(doc)
	return err
}

// StripProcessingInstructions removes the xml declaration and every other
// <?...?> marker (Guitar Pro exports leave <?GP ...?> blocks behind).
func StripProcessingInstructions(doc string) string {
	return procInst.ReplaceAllString(doc, "")
}

func declaration(doc string) Node {
	m := declPattern.FindString(doc)
	if m == "" {
		return nil
	}
	res := Node{}
	for _, kv := range declAttr.FindAllStringSubmatch(m, -1) {
		res[AttrPrefix+kv[1]] = kv[2]
	}
	return res
}

func transcode(doc, label string) (string, error) {
	r, err := charset.NewReaderLabel(label, strings.NewReader(doc))
	if err != nil {
		return "", errors.Wrapf(err, "unsupported encoding %q", label)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrapf(err, "transcoding from %q", label)
	}
	return string(b), nil
}

func convert(el *xmldom.Node) any {
	if len(el.Attributes) == 0 && len(el.Children) == 0 {
		return el.Text
	}

	n := Node{}
	for _, attr := range el.Attributes {
		n[AttrPrefix+attr.Name] = attr.Value
	}
	var order []string
	for _, child := range el.Children {
		key := child.Name
		order = append(order, key)
		v := convert(child)
		switch existing := n[key].(type) {
		case nil:
			n[key] = v
		case []any:
			n[key] = append(existing, v)
		default:
			n[key] = []any{existing, v}
		}
	}
	if len(order) > 0 {
		n[OrderKey] = order
	}
	if el.Text != "" {
		n[TextKey] = el.Text
	}
	return n
}

// singleRoot rejects content after the root element, which go-xmldom
// silently drops.
func singleRoot(doc string) error {
	dec := xml.NewDecoder(strings.NewReader(doc))
	var depth int
	var root string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(ErrMalformed, err.Error())
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if root != "" {
					return errors.Wrapf(ErrMalformed, "element <%v> after root element <%v>", t.Name.Local, root)
				}
				root = t.Name.Local
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && root != "" && len(bytes.TrimSpace(t)) > 0 {
				return errors.Wrapf(ErrMalformed, "text after root element <%v>", root)
			}
		}
	}
}
