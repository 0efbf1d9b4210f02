package fulfillment

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// The 3PL's interface runs on ISO-8859-1, not Unicode. Both directions of the
// codec transcode at the boundary so nothing past this package ever sees
// non-UTF-8 bytes.
const xmlDeclaration = `<?xml version="1.0" encoding="ISO-8859-1"?>` + "\n"

// EncodeOrderBatch serializes a batch into a CMDCLI document, transcoded to
// ISO-8859-1. Characters outside the charset are replaced rather than
// failing the whole batch.
func EncodeOrderBatch(batch *OrderBatch) ([]byte, error) {
	if len(batch.Orders) == 0 {
		return nil, ErrEmptyOrderBatch
	}

	body, err := xml.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("fulfillment: encoding order batch: %w", err)
	}

	doc := make([]byte, 0, len(xmlDeclaration)+len(body)+1)
	doc = append(doc, xmlDeclaration...)
	doc = append(doc, body...)
	doc = append(doc, '\n')

	encoder := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	out, _, err := transform.Bytes(encoder, doc)
	if err != nil {
		return nil, fmt.Errorf("fulfillment: transcoding order batch: %w", err)
	}
	return out, nil
}

// DecodeReportFile parses a CRPCMD document. A container holding a single
// CRORDER and one holding several both decode into Orders; the wire format
// does not distinguish the two cases.
func DecodeReportFile(data []byte) (*ReportFile, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var file ReportFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	return &file, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "iso8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "utf-8", "":
		return input, nil
	default:
		return nil, fmt.Errorf("fulfillment: unsupported charset %q", charset)
	}
}
