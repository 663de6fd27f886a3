package payload

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Header identifies the originator, the target device and the service
// request being invoked.
type Header struct {
	OriginatorName string `json:"originatorName"`
	Target         string `json:"target"`
	SR             string `json:"sr"`
	SRV            string `json:"srv"`
	CV             int    `json:"cv"`
}

// Document is an assembled request. Members encode in the order the request
// executor documents them.
type Document struct {
	DUISVersion       string `json:"duisVersion"`
	Header            Header `json:"header"`
	ExecutionDateTime string `json:"executionDateTime,omitempty"`
	// BodyParameters is the pruned body section, or nil when omitted.
	BodyParameters any `json:"bodyParameters,omitempty"`
}

// Encode renders doc as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	return marshal(doc, "  ")
}

// EncodeCompact renders doc as single-line JSON.
func EncodeCompact(doc *Document) ([]byte, error) {
	return marshal(doc, "")
}

func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ShortCode derives the service request code from a three-part service
// request variant code ("8.1.1" becomes "8.1"). Other codes are returned
// unchanged.
func ShortCode(srv string) string {
	parts := strings.Split(srv, ".")
	if len(parts) == 3 {
		return parts[0] + "." + parts[1]
	}

	return srv
}

// Curl renders a curl invocation posting doc to baseURL+opPath.
func Curl(baseURL, opPath string, doc *Document) (string, error) {
	body, err := EncodeCompact(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "curl -X 'POST' \\\n")
	fmt.Fprintf(&b, "  '%s%s' \\\n", strings.TrimSuffix(baseURL, "/"), opPath)
	fmt.Fprintf(&b, "  -H 'accept: application/json' \\\n")
	fmt.Fprintf(&b, "  -H 'Content-Type: application/json' \\\n")
	fmt.Fprintf(&b, "  -d '%s'", strings.ReplaceAll(string(body), "'", `'\''`))

	return b.String(), nil
}
