package biomart

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// QueryParams describe one dataset query. Attributes select output
// columns; Filters restrict rows. A filter value may be a string, a
// bool (serialized as the excluded flag the protocol expects), an
// integer, or a []string joined with commas.
type QueryParams struct {
	Attributes []string
	Filters    map[string]any
}

// The XML query envelope sent as the ?query= parameter.
type queryXML struct {
	XMLName           xml.Name     `xml:"Query"`
	VirtualSchemaName string       `xml:"virtualSchemaName,attr"`
	Formatter         string       `xml:"formatter,attr"`
	Header            int          `xml:"header,attr"`
	UniqueRows        int          `xml:"uniqueRows,attr"`
	ConfigVersion     string       `xml:"datasetConfigVersion,attr"`
	Dataset           queryDataset `xml:"Dataset"`
}

type queryDataset struct {
	Name       string           `xml:"name,attr"`
	Interface  string           `xml:"interface,attr"`
	Attributes []queryAttribute `xml:"Attribute"`
	Filters    []queryFilter    `xml:"Filter"`
}

type queryAttribute struct {
	Name string `xml:"name,attr"`
}

type queryFilter struct {
	Name     string `xml:"name,attr"`
	Value    string `xml:"value,attr,omitempty"`
	Excluded string `xml:"excluded,attr,omitempty"`
}

func buildQueryXML(virtualSchema, dataset string, attributes []string, filters map[string]any) (string, error) {
	q := queryXML{
		VirtualSchemaName: virtualSchema,
		Formatter:         "TSV",
		Header:            1,
		UniqueRows:        1,
		ConfigVersion:     "0.6",
		Dataset: queryDataset{
			Name:      dataset,
			Interface: "default",
		},
	}

	for _, a := range attributes {
		q.Dataset.Attributes = append(q.Dataset.Attributes, queryAttribute{Name: a})
	}

	// Map order is random; sort so identical queries produce identical
	// documents (and identical cache keys).
	for _, name := range sortedKeys(filters) {
		f, err := encodeFilter(name, filters[name])
		if err != nil {
			return "", err
		}
		q.Dataset.Filters = append(q.Dataset.Filters, f)
	}

	doc, err := xml.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("marshaling query: %w", err)
	}
	return string(doc), nil
}

func encodeFilter(name string, value any) (queryFilter, error) {
	f := queryFilter{Name: name}
	switch v := value.(type) {
	case bool:
		// Boolean filters carry no value; they include or exclude rows.
		if v {
			f.Excluded = "0"
		} else {
			f.Excluded = "1"
		}
	case string:
		f.Value = v
	case []string:
		f.Value = strings.Join(v, ",")
	case int:
		f.Value = fmt.Sprintf("%d", v)
	case int64:
		f.Value = fmt.Sprintf("%d", v)
	case float64:
		f.Value = fmt.Sprintf("%v", v)
	default:
		return queryFilter{}, fmt.Errorf("filter %s: unsupported value type %T", name, value)
	}
	return f, nil
}
