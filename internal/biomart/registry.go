package biomart

import "encoding/xml"

// martRegistry is the XML document returned by ?type=registry. Only the
// attributes this client interprets are mapped; the rest ride along in
// the document and are ignored.
type martRegistry struct {
	XMLName   xml.Name       `xml:"MartRegistry"`
	Locations []martLocation `xml:"MartURLLocation"`
}

type martLocation struct {
	Name          string `xml:"name,attr"`
	Database      string `xml:"database,attr"`
	DisplayName   string `xml:"displayName,attr"`
	VirtualSchema string `xml:"serverVirtualSchema,attr"`
	Visible       int    `xml:"visible,attr"`
	Default       int    `xml:"default,attr"`
}

func decodeRegistry(body []byte) (*martRegistry, error) {
	reg := &martRegistry{}
	if err := xml.Unmarshal(body, reg); err != nil {
		return nil, &ParseError{What: "registry", Err: err}
	}
	return reg, nil
}
