package kml

import "encoding/xml"

// Namespace is the KML 2.2 namespace written on encode.
const Namespace = "http://www.opengis.net/kml/2.2"

// root is the <kml> element. A document holds a single top-level feature.
type root struct {
	XMLName   xml.Name   `xml:"kml"`
	Xmlns     string     `xml:"xmlns,attr,omitempty"`
	Document  *container `xml:"Document"`
	Folder    *container `xml:"Folder"`
	Placemark *placemark `xml:"Placemark"`
}

// container is a Document or a Folder.
type container struct {
	Name       string      `xml:"name,omitempty"`
	Documents  []container `xml:"Document"`
	Folders    []container `xml:"Folder"`
	Placemarks []placemark `xml:"Placemark"`
}

type placemark struct {
	ID           string         `xml:"id,attr,omitempty"`
	Name         *string        `xml:"name"`
	Address      *string        `xml:"address"`
	Description  *string        `xml:"description"`
	PhoneNumber  *string        `xml:"phoneNumber"`
	ExtendedData *extendedData  `xml:"ExtendedData"`
	Point        *point         `xml:"Point"`
	Polygon      *polygon       `xml:"Polygon"`
	LinearRing   *linearRing    `xml:"LinearRing"`
	Multi        *multiGeometry `xml:"MultiGeometry"`
}

type extendedData struct {
	Data       []data       `xml:"Data"`
	SchemaData []schemaData `xml:"SchemaData"`
}

type data struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type schemaData struct {
	SchemaURL  string       `xml:"schemaUrl,attr,omitempty"`
	SimpleData []simpleData `xml:"SimpleData"`
}

type simpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type point struct {
	Coordinates string `xml:"coordinates"`
}

type linearRing struct {
	Coordinates string `xml:"coordinates"`
}

// boundary wraps the rings of an outer or inner boundary. KML 2.2 allows a
// single ring per boundary; KML 2.0 files may list several inner rings in one.
type boundary struct {
	LinearRings []linearRing `xml:"LinearRing"`
}

type polygon struct {
	Outer boundary   `xml:"outerBoundaryIs"`
	Inner []boundary `xml:"innerBoundaryIs,omitempty"`
}

type multiGeometry struct {
	Points      []point         `xml:"Point"`
	Polygons    []polygon       `xml:"Polygon"`
	LinearRings []linearRing    `xml:"LinearRing"`
	Multi       []multiGeometry `xml:"MultiGeometry"`
}
