package catalog

import "github.com/spatialworks/geosniff/internal/types"

// Stable identifiers of the built-in types. Fixed forever; external systems
// reference detections by these IDs.
const (
	WebServiceID types.TypeID = "88311f83-818c-46ed-8a9a-cec4f3707365"

	WFSID   types.TypeID = "db12feeb-0086-4006-bc74-28f4fdef0171"
	WFS20ID types.TypeID = "9b6ef734-981e-4d60-aa81-d6730a1c6389"
	WFS11ID types.TypeID = "bc6384f3-2652-4c7b-bc45-20cec488ecd0"
	WFS10ID types.TypeID = "8a560e6a-043f-42ca-b0a3-31b115899593"

	WMSID   types.TypeID = "bae0df71-0553-438d-938f-028b53ba8aa7"
	WMS13ID types.TypeID = "9981e87e-d642-43b3-ad5f-e77469075e74"
	WMS11ID types.TypeID = "d1836a8d-9909-4899-a0bc-67f512f5f5ac"

	WMTSID   types.TypeID = "380b969c-215e-46f8-a4e9-16f002f7d6c3"
	WMTS10ID types.TypeID = "ae35f7cd-86d9-475a-aa3a-e0bfbda2bb5f"

	WCSID   types.TypeID = "df841ddd-20d4-4551-8bc2-a4f7267e39e0"
	WCS20ID types.TypeID = "dac58b52-3ffd-4eb5-96e3-64723d8f0f51"
	WCS11ID types.TypeID = "824596fa-ec04-4314-bf1a-f1e6ee119bf0"
	WCS10ID types.TypeID = "4d4bffed-0a18-43d3-98f4-f5e7055b02e4"

	SOSID   types.TypeID = "adeb8bc4-c49b-4704-ba88-813aea5de31d"
	SOS20ID types.TypeID = "f897f313-55f0-4e51-928a-0e9869f5a1d6"

	CSWID      types.TypeID = "18bcbc68-56b9-4e8e-b0d1-90de324d0cc8"
	CSW30ID    types.TypeID = "b2a780a8-5bba-4780-bcd5-c8c909ac407d"
	CSW202ID   types.TypeID = "4b0fb35d-10f0-47df-bc0b-6d4548035ae2"
	CSWEbRIMID types.TypeID = "9b101002-e65e-4d96-ac45-fcb95ac6f507"

	AtomID types.TypeID = "49d881ae-b115-4b91-aabe-31d5791bce52"

	DocumentsID    types.TypeID = "bec4dd69-72b9-498e-a693-88e3d59d2552"
	XMLDocumentsID types.TypeID = "810fce18-4bf5-4c6c-a972-6962bbe3b76b"

	GMLFeatureCollectionID       types.TypeID = "e1d4a306-7a78-4a3b-ae2d-cf5f0810853e"
	WFS20FeatureCollectionID     types.TypeID = "a8a1b437-0ebf-454c-8204-bcf0b8548d8c"
	GML32FeatureCollectionID     types.TypeID = "c8aaacd7-df33-4d64-89af-fabeae63a958"
	GML21To31FeatureCollectionID types.TypeID = "123b2f9b-c9f4-4379-8bf1-e9a656a14bd0"
	INSPIREDatasetID             types.TypeID = "057d7919-d7b8-4d77-adb8-0d3118b3d220"
	CityGML20ID                  types.TypeID = "3e3639b1-f6b7-4d62-9160-963cfb2ea300"
	CityGML10ID                  types.TypeID = "d9371e42-2bf4-420c-84a5-4ab9055a8706"
	MetadataRecordsID            types.TypeID = "5a60dded-0cb0-4977-9b06-16c6c2321d2e"
)

// OWS capabilities documents share the Title/Abstract extraction queries.
const (
	owsTitle    = "/*/*[local-name() = 'ServiceIdentification' or local-name() = 'Service' ][1]/*[local-name() = 'Title'][1]/text()"
	owsAbstract = "(/*/*[local-name() = 'ServiceIdentification' or local-name() = 'Service'][1]/*[local-name() = 'Abstract'][1]/text())[1]"
)

var xmlMimeTypes = []string{"application/xml", "text/xml"}

// Builtin returns the built-in type table. The slice is freshly allocated on
// every call so callers may append their own Defs before Build.
func Builtin() []Def {
	return []Def{
		// Fallback when content parses and the URI scheme is HTTP-family.
		{
			ID:          WebServiceID,
			Label:       "Web service",
			Description: "Any service with an interface using HTTP(S).",
		},
		{
			ID:          WFSID,
			Label:       "OGC Web Feature Service",
			Description: "A web service implementing the OGC Web Feature Service standard.",
			Parent:      WebServiceID,
		},
		{
			ID:          WFS20ID,
			Label:       "OGC Web Feature Service 2.0",
			Description: "A web service implementing OGC Web Feature Service 2.0 and OGC Filter Encoding 2.0.",
			Parent:      WFSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'WFS_Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wfs/2.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wfs.*",
			DefaultQuery: map[string]string{"service": "WFS", "request": "GetCapabilities", "ACCEPTVERSIONS": "2.0.0"},
		},
		{
			ID:          WFS11ID,
			Label:       "OGC Web Feature Service 1.1",
			Description: "A web service implementing OGC Web Feature Service 1.1 and OGC Filter Encoding 1.1.",
			Parent:      WFSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'WFS_Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wfs' and starts-with(@version, '1.1') ])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wfs.*",
			DefaultQuery: map[string]string{"service": "WFS", "request": "GetCapabilities", "VERSION": "1.1.0"},
		},
		{
			ID:          WFS10ID,
			Label:       "OGC Web Feature Service 1.0",
			Description: "A web service implementing OGC Web Feature Service 1.0 and OGC Filter Encoding 1.0.",
			Parent:      WFSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'WFS_Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wfs' and @version='1.0.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wfs.*",
			DefaultQuery: map[string]string{"service": "WFS", "request": "GetCapabilities", "VERSION": "1.0.0"},
		},
		{
			ID:          WMSID,
			Label:       "OGC Web Map Service",
			Description: "A web service implementing the OGC Web Map Service standard.",
			Parent:      WebServiceID,
			LabelQuery:  owsTitle,
			DescQuery:   owsAbstract,
		},
		{
			ID:          WMS13ID,
			Label:       "OGC Web Map Service 1.3",
			Description: "A web service implementing OGC Web Map Service 1.3.",
			Parent:      WMSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'WMS_Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wms' and @version = '1.3.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wms.*",
			DefaultQuery: map[string]string{"service": "WMS", "request": "GetCapabilities", "VERSION": "1.3.0"},
		},
		{
			ID:          WMS11ID,
			Label:       "OGC Web Map Service 1.1",
			Description: "A web service implementing OGC Web Map Service 1.1.",
			Parent:      WMSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'WMT_MS_Capabilities' and " +
				"@version = '1.1.1'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wms.*",
			DefaultQuery: map[string]string{"service": "WMS", "request": "GetCapabilities", "VERSION": "1.1.1"},
		},
		{
			ID:          WMTSID,
			Label:       "OGC Web Map Tile Service",
			Description: "A web service implementing the OGC Web Map Tile Service standard.",
			Parent:      WebServiceID,
		},
		{
			ID:          WMTS10ID,
			Label:       "OGC Web Map Tile Service 1.0",
			Description: "A web service implementing OGC Web Map Tile Service 1.0.",
			Parent:      WMTSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wmts/1.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wmts.*",
			DefaultQuery: map[string]string{"service": "WMTS", "request": "GetCapabilities", "VERSION": "1.0.0"},
		},
		{
			ID:          WCSID,
			Label:       "OGC Web Coverage Service",
			Description: "A web service implementing the OGC Web Coverage Service standard.",
			Parent:      WebServiceID,
		},
		{
			ID:          WCS20ID,
			Label:       "OGC Web Coverage Service 2.0",
			Description: "A web service implementing OGC Web Coverage Service 2.0.",
			Parent:      WCSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wcs/2.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wcs.*",
			DefaultQuery: map[string]string{"service": "WCS", "request": "GetCapabilities", "ACCEPTVERSIONS": "2.0.1"},
		},
		{
			ID:          WCS11ID,
			Label:       "OGC Web Coverage Service 1.1",
			Description: "A web service implementing OGC Web Coverage Service 1.1.",
			Parent:      WCSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wcs/1.1'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wcs.*",
			DefaultQuery: map[string]string{"service": "WCS", "request": "GetCapabilities", "VERSION": "1.1.0"},
		},
		{
			ID:          WCS10ID,
			Label:       "OGC Web Coverage Service 1.0",
			Description: "A web service implementing OGC Web Coverage Service 1.0.",
			Parent:      WCSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'WCS_Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/wcs'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=wcs.*",
			DefaultQuery: map[string]string{"service": "WCS", "request": "GetCapabilities", "VERSION": "1.0.0"},
		},
		{
			ID:          SOSID,
			Label:       "OGC Sensor Observation Service",
			Description: "A web service implementing the OGC Sensor Observation Service standard.",
			Parent:      WebServiceID,
		},
		{
			ID:          SOS20ID,
			Label:       "OGC Sensor Observation Service 2.0",
			Description: "A web service implementing OGC Sensor Observation Service 2.0.",
			Parent:      SOSID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/sos/2.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=sos.*",
			DefaultQuery: map[string]string{"service": "SOS", "request": "GetCapabilities", "ACCEPTVERSIONS": "2.0.0"},
		},
		{
			ID:          CSWID,
			Label:       "OGC Catalogue Service",
			Description: "A web service implementing the OGC Catalogue Service standard.",
			Parent:      WebServiceID,
		},
		{
			ID:          CSW30ID,
			Label:       "OGC Catalogue Service 3.0",
			Description: "A web service implementing OGC Catalogue Service 3.0",
			Parent:      CSWID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/cat/csw/3.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=csw.*",
			DefaultQuery: map[string]string{"service": "CSW", "request": "GetCapabilities", "ACCEPTVERSIONS": "3.0.0"},
		},
		{
			ID:          CSW202ID,
			Label:       "OGC Catalogue Service 2.0.2",
			Description: "A web service implementing OGC Catalogue Service 2.0.2.",
			Parent:      CSWID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/cat/csw/2.0.2'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=csw.*",
			DefaultQuery: map[string]string{"service": "CSW", "request": "GetCapabilities", "ACCEPTVERSIONS": "2.0.2"},
		},
		{
			ID:          CSWEbRIMID,
			Label:       "OGC CSW-ebRIM Registry Service 1.0",
			Description: "A web service implementing the CSW-ebRIM Registry Service 1.0",
			Parent:      CSWID,
			MimeTypes:   xmlMimeTypes,
			Detection: "boolean(/*[local-name() = 'Capabilities' and " +
				"namespace-uri() = 'http://www.opengis.net/cat/wrs/1.0'])",
			LabelQuery:   owsTitle,
			DescQuery:    owsAbstract,
			URIPattern:   ".*service=csw.*",
			DefaultQuery: map[string]string{"service": "CSW", "request": "GetCapabilities", "ACCEPTVERSIONS": "2.0.2"},
		},
		{
			ID:          AtomID,
			Label:       "Atom feed",
			Description: "A feed implementing the Atom Syndication Format that can be accessed using HTTP(S).",
			Parent:      WebServiceID,
			MimeTypes:   []string{"application/atom+xml"},
			Detection:   "boolean(/*[local-name() = 'feed' and namespace-uri() = 'http://www.w3.org/2005/Atom'])",
			LabelQuery: "/*[local-name() = 'feed' and namespace-uri() = 'http://www.w3.org/2005/Atom']" +
				"/*[local-name() = 'title' and namespace-uri() = 'http://www.w3.org/2005/Atom']",
			DescQuery: "/*[local-name() = 'feed' and namespace-uri() = 'http://www.w3.org/2005/Atom']" +
				"/*[local-name() = 'subtitle' and namespace-uri() = 'http://www.w3.org/2005/Atom']",
		},
		{
			ID:          DocumentsID,
			Label:       "Set of documents",
			Description: "A set of documents.",
		},
		// Fallback when content parses and the URI scheme is not HTTP-family.
		{
			ID:          XMLDocumentsID,
			Label:       "Set of XML documents",
			Description: "A set of XML documents.",
			Parent:      DocumentsID,
			Extensions:  []string{"xml"},
			MimeTypes:   xmlMimeTypes,
		},
		{
			ID:          GMLFeatureCollectionID,
			Label:       "GML feature collections",
			Description: "A set of XML documents. Each document contains a GML feature collection.",
			Parent:      XMLDocumentsID,
			Extensions:  []string{"gml", "xml"},
			Detection:   "boolean(/*[local-name() = 'FeatureCollection'])",
		},
		{
			ID:          WFS20FeatureCollectionID,
			Label:       "WFS 2.0 feature collections",
			Description: "A set of XML documents. Each document contains a WFS 2.0 feature collection.",
			Parent:      GMLFeatureCollectionID,
			Extensions:  []string{"gml", "xml"},
			Detection: "boolean(/*[local-name() = 'FeatureCollection' and " +
				"namespace-uri() = 'http://www.opengis.net/wfs/2.0'])",
		},
		{
			ID:          GML32FeatureCollectionID,
			Label:       "GML 3.2 feature collections",
			Description: "A set of XML documents. Each document contains a GML 3.2 feature collection.",
			Parent:      GMLFeatureCollectionID,
			Extensions:  []string{"gml", "xml"},
			Detection: "boolean(/*[local-name() = 'FeatureCollection' and " +
				"namespace-uri() = 'http://www.opengis.net/gml/3.2'])",
		},
		{
			ID:          GML21To31FeatureCollectionID,
			Label:       "GML 2.1/GML 3.1 feature collections",
			Description: "A set of XML documents. Each document contains a GML 2.1 or GML 3.1 feature collection.",
			Parent:      GMLFeatureCollectionID,
			Extensions:  []string{"gml", "xml"},
			Detection: "boolean(/*[local-name() = 'FeatureCollection' and " +
				"namespace-uri() = 'http://www.opengis.net/gml'])",
		},
		{
			ID:          INSPIREDatasetID,
			Label:       "INSPIRE SpatialDataSet documents",
			Description: "A set of XML documents. Each document contains an INSPIRE SpatialDataSet.",
			Parent:      GMLFeatureCollectionID,
			Extensions:  []string{"gml", "xml"},
			Detection: "boolean(/*[local-name() = 'SpatialDataSet' and " +
				"starts-with(namespace-uri(), 'http://inspire.ec.europa.eu/schemas/base/')])",
		},
		{
			ID:          CityGML20ID,
			Label:       "CityGML 2.0 CityModel",
			Description: "A set of XML documents. Each document contains a CityGML 2.0 CityModel.",
			Parent:      GMLFeatureCollectionID,
			Extensions:  []string{"gml", "xml"},
			Detection: "boolean(/*[local-name() = 'CityModel' and " +
				"namespace-uri() = 'http://www.opengis.net/citygml/2.0'])",
		},
		{
			ID:          CityGML10ID,
			Label:       "CityGML 1.0 CityModel",
			Description: "A set of XML documents. Each document contains a CityGML 1.0 CityModel.",
			Parent:      GMLFeatureCollectionID,
			Extensions:  []string{"gml", "xml"},
			Detection: "boolean(/*[local-name() = 'CityModel' and " +
				"namespace-uri() = 'http://www.opengis.net/citygml/1.0'])",
		},
		{
			ID:          MetadataRecordsID,
			Label:       "Metadata records",
			Description: "A set of XML documents. Each document contains one or more gmd:MD_Metadata elements.",
			Parent:      XMLDocumentsID,
			Extensions:  []string{"xml"},
			Detection: "boolean(/*[(local-name() = 'GetRecordsResponse' and " +
				"starts-with(namespace-uri(), 'http://www.opengis.net/cat/csw/')) or " +
				"(local-name() = 'MD_Metadata' and namespace-uri() = 'http://www.isotc211.org/2005/gmd')])",
		},
	}
}
