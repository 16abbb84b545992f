package filterx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// parse_xml(text) converts an XML document into a nested dict. Repeated
// elements promote scalars to lists; attributes land next to their element
// under the "<name>.attrs" key, promoted to a list in lockstep with the
// element values (null standing in for attribute-less repeats). Character
// data is whitespace-trimmed and empty runs never overwrite a placeholder.

type parseXMLFunction struct {
	ExprBase
	subject Expr
}

func newParseXMLFunction(name string, args *FunctionArgs) (Expr, error) {
	if args.Len() != 1 {
		return nil, ctorError(name, "invalid number of arguments, usage: parse_xml(text)")
	}
	return &parseXMLFunction{subject: args.GetExpr(0)}, nil
}

func (f *parseXMLFunction) Eval(ctx *EvalContext) (*Object, error) {
	subjectObj, err := f.subject.Eval(ctx)
	if err != nil {
		return nil, err
	}
	subject, ok := xmlTextArg(subjectObj)
	subjectObj.Unref()
	if !ok {
		return nil, evalError(f, "parse_xml() argument must be a string")
	}

	root := NewJSONObjectEmpty()
	if err := parseXMLInto(root, subject); err != nil {
		root.Unref()
		return nil, evalError(f, "failed to parse xml: %s", err)
	}
	return root, nil
}

func xmlTextArg(arg *Object) (string, bool) {
	if s, ok := StringValue(arg); ok {
		return s, true
	}
	if tag, ok := MessageValueType(arg); ok && tag == logmsg.VTString {
		raw, _ := MessageValueRaw(arg)
		return raw, true
	}
	return "", false
}

// xmlFrame tracks where one open element's value lives: the dict holding
// it, the element key, and the list slot when repeats promoted the value.
// contents is created lazily on the first child element.
type xmlFrame struct {
	parent    *Object
	key       string
	listIndex int64 // -1 while the value is a scalar slot
	contents  *Object
}

func parseXMLInto(root *Object, text string) error {
	decoder := xml.NewDecoder(strings.NewReader(text))
	var stack []*xmlFrame

	defer func() {
		for _, frame := range stack {
			frame.contents.Unref()
		}
	}()

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			current, err := currentContents(root, stack)
			if err != nil {
				return err
			}
			frame, err := startElement(current, t)
			if err != nil {
				return err
			}
			stack = append(stack, frame)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			top.contents.Unref()
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			chars := strings.TrimSpace(string(t))
			if chars == "" || top.contents != nil {
				continue
			}
			value := NewString(chars)
			ok := setSlot(top.parent, top.key, top.listIndex, value)
			value.Unref()
			if !ok {
				return fmt.Errorf("failed to store character data for %q", top.key)
			}
		}
	}
}

// currentContents returns the dict child elements of the innermost open
// element insert into, converting its leaf placeholder on first use. The
// root level inserts straight into the result dict.
func currentContents(root *Object, stack []*xmlFrame) (*Object, error) {
	if len(stack) == 0 {
		return root, nil
	}
	top := stack[len(stack)-1]
	if top.contents != nil {
		return top.contents, nil
	}

	dict := top.parent.CreateDict()
	ok := setSlot(top.parent, top.key, top.listIndex, dict)
	dict.Unref()
	if !ok {
		return nil, fmt.Errorf("failed to convert %q into a node", top.key)
	}
	// read back the stored copy; that is the one future writes must hit
	top.contents = getSlot(top.parent, top.key, top.listIndex)
	if top.contents == nil {
		return nil, fmt.Errorf("failed to reload node %q", top.key)
	}
	return top.contents, nil
}

func startElement(current *Object, elem xml.StartElement) (*xmlFrame, error) {
	name := elem.Name.Local
	numOfElems, listIndex, err := prepareInnerObject(current, name)
	if err != nil {
		return nil, err
	}
	if err := collectAttrs(current, name, numOfElems, elem.Attr); err != nil {
		return nil, err
	}
	return &xmlFrame{parent: current, key: name, listIndex: listIndex}, nil
}

// prepareInnerObject reserves the slot for one more occurrence of the
// element: the first stores an empty string leaf, the second promotes the
// slot to a list of the previous value plus a fresh leaf, later ones
// append.
func prepareInnerObject(current *Object, name string) (numOfElems uint64, listIndex int64, err error) {
	empty := NewString("")
	defer empty.Unref()

	if existing := current.GetattrString(name); existing != nil {
		defer existing.Unref()

		if existing.IsType(TypeList) {
			if !ListAppend(existing, empty) {
				return 0, 0, fmt.Errorf("failed to append to %q", name)
			}
			length, _ := existing.Len()
			return length, int64(length) - 1, nil
		}

		// scalar or node: promote to a list of the old value and a leaf
		promoted := current.CreateList()
		defer promoted.Unref()
		if !ListAppend(promoted, existing) || !ListAppend(promoted, empty) {
			return 0, 0, fmt.Errorf("failed to promote %q to a list", name)
		}
		if !current.SetattrString(name, promoted) {
			return 0, 0, fmt.Errorf("failed to store list at %q", name)
		}
		return 2, 1, nil
	}

	if !current.SetattrString(name, empty) {
		return 0, 0, fmt.Errorf("failed to insert empty leaf at %q", name)
	}
	return 1, -1, nil
}

func collectAttrs(current *Object, name string, numOfElems uint64, attrs []xml.Attr) error {
	attrsKey := name + ".attrs"

	if len(attrs) == 0 {
		if numOfElems == 1 {
			return nil
		}
		// repeated element without attributes: pad an existing attrs
		// collection with null so indexes stay aligned
		existing := current.GetattrString(attrsKey)
		if existing == nil {
			return nil
		}
		defer existing.Unref()
		null := NewNull()
		defer null.Unref()
		return appendOrPromote(current, attrsKey, existing, null)
	}

	attrsDict := buildAttrsDict(current, attrs)
	if attrsDict == nil {
		return fmt.Errorf("failed to build attributes of %q", name)
	}
	defer attrsDict.Unref()

	if numOfElems == 1 {
		if !current.SetattrString(attrsKey, attrsDict) {
			return fmt.Errorf("failed to store attributes of %q", name)
		}
		return nil
	}

	existing := current.GetattrString(attrsKey)
	if existing == nil {
		// earlier occurrences carried no attributes, nothing is collected
		return nil
	}
	defer existing.Unref()
	return appendOrPromote(current, attrsKey, existing, attrsDict)
}

// appendOrPromote appends value to an attrs list, first promoting a lone
// dict into a list around it.
func appendOrPromote(current *Object, key string, existing, value *Object) error {
	if existing.IsType(TypeList) {
		if !ListAppend(existing, value) {
			return fmt.Errorf("failed to append to %q", key)
		}
		return nil
	}

	promoted := current.CreateList()
	defer promoted.Unref()
	if !ListAppend(promoted, existing) || !ListAppend(promoted, value) {
		return fmt.Errorf("failed to promote %q to a list", key)
	}
	if !current.SetattrString(key, promoted) {
		return fmt.Errorf("failed to store list at %q", key)
	}
	return nil
}

func buildAttrsDict(current *Object, attrs []xml.Attr) *Object {
	dict := current.CreateDict()
	if dict == nil {
		return nil
	}
	for _, attr := range attrs {
		value := NewString(attr.Value)
		ok := dict.SetattrString(attr.Name.Local, value)
		value.Unref()
		if !ok {
			dict.Unref()
			return nil
		}
	}
	return dict
}

func getSlot(parent *Object, key string, listIndex int64) *Object {
	if listIndex < 0 {
		return parent.GetattrString(key)
	}
	list := parent.GetattrString(key)
	if list == nil {
		return nil
	}
	defer list.Unref()
	return ListGetIndex(list, listIndex)
}

func setSlot(parent *Object, key string, listIndex int64, value *Object) bool {
	if listIndex < 0 {
		return parent.SetattrString(key, value)
	}
	list := parent.GetattrString(key)
	if list == nil {
		return false
	}
	defer list.Unref()
	return ListSetIndex(list, listIndex, value)
}

// Free releases the subject subtree.
func (f *parseXMLFunction) Free() {
	f.subject.Free()
}
