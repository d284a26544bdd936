// Package xmlutils provides the XPath helpers used to read XML bank statements.
package xmlutils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// LoadXML parses an XML document from r.
func LoadXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath) // #nosec G304 -- path chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() { _ = file.Close() }()

	root, err := xmlpath.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file: %w", err)
	}
	return root, nil
}

// Nodes returns every node matched by xpath under root, in document order.
func Nodes(root *xmlpath.Node, xpath string) ([]*xmlpath.Node, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath %q: %w", xpath, err)
	}

	var nodes []*xmlpath.Node
	iter := path.Iter(root)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes, nil
}

// ExtractFromXML extracts values from an XML node using an XPath expression
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	nodes, err := Nodes(root, xpath)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, n.String())
	}
	return values, nil
}

// Value returns the cleaned text of the first node matched by xpath under node,
// or "" when nothing matches.
func Value(node *xmlpath.Node, xpath string) (string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return "", fmt.Errorf("failed to compile XPath %q: %w", xpath, err)
	}
	s, ok := path.String(node)
	if !ok {
		return "", nil
	}
	return CleanText(s), nil
}

// GetOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func GetOrEmpty(slice []string, index int) string {
	if index >= 0 && index < len(slice) {
		return slice[index]
	}
	return ""
}

// CleanText collapses whitespace runs, newlines included, into single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
