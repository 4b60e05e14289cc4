package biomart

import "encoding/xml"

// datasetConfig is the XML document returned by ?type=configuration.
// Attribute and filter descriptions sit three levels deep in page,
// group, collection containers; only the leaves matter here.
type datasetConfig struct {
	XMLName        xml.Name        `xml:"DatasetConfig"`
	AttributePages []attributePage `xml:"AttributePage"`
	FilterPages    []filterPage    `xml:"FilterPage"`
}

type attributePage struct {
	Groups []attributeGroup `xml:"AttributeGroup"`
}

type attributeGroup struct {
	Collections []attributeCollection `xml:"AttributeCollection"`
}

type attributeCollection struct {
	Descriptions []attributeDescription `xml:"AttributeDescription"`
}

type attributeDescription struct {
	InternalName string `xml:"internalName,attr"`
	DisplayName  string `xml:"displayName,attr"`
	Description  string `xml:"description,attr"`
	Default      string `xml:"default,attr"`
}

type filterPage struct {
	Groups []filterGroup `xml:"FilterGroup"`
}

type filterGroup struct {
	Collections []filterCollection `xml:"FilterCollection"`
}

type filterCollection struct {
	Descriptions []filterDescription `xml:"FilterDescription"`
}

type filterDescription struct {
	InternalName string `xml:"internalName,attr"`
	DisplayName  string `xml:"displayName,attr"`
	Description  string `xml:"description,attr"`
	Type         string `xml:"type,attr"`
}

func decodeConfiguration(body []byte) (*datasetConfig, error) {
	cfg := &datasetConfig{}
	if err := xml.Unmarshal(body, cfg); err != nil {
		return nil, &ParseError{What: "configuration", Err: err}
	}
	return cfg, nil
}

func (c *datasetConfig) attributeDescriptions() []attributeDescription {
	var out []attributeDescription
	for _, page := range c.AttributePages {
		for _, group := range page.Groups {
			for _, coll := range group.Collections {
				out = append(out, coll.Descriptions...)
			}
		}
	}
	return out
}

func (c *datasetConfig) filterDescriptions() []filterDescription {
	var out []filterDescription
	for _, page := range c.FilterPages {
		for _, group := range page.Groups {
			for _, coll := range group.Collections {
				out = append(out, coll.Descriptions...)
			}
		}
	}
	return out
}
