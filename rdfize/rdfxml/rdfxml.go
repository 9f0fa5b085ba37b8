// Package rdfxml is a minimal lodcache.RDFizer for the RDF/XML "striped"
// syntax (application/rdf+xml, text/xml): rdf:RDF containing rdf:Description
// elements whose child elements are properties. It does not attempt the
// full abbreviated-syntax grammar (typed node shortcuts, rdf:parseType
// "Collection", reification) — those are left for a production RDF/XML
// parser library, per SPEC_FULL.md §C.
package rdfxml

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/fortytwonet/lodcache"
)

// Name is the symbolic RDFizer name recorded on CacheEntry.Rdfizer.
const Name = "rdfxml"

const rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// Rdfizer parses striped RDF/XML documents.
type Rdfizer struct{}

// New constructs a Rdfizer.
func New() *Rdfizer {
	return &Rdfizer{}
}

// Rdfize decodes input as RDF/XML, emitting one Statement per property
// element found inside each rdf:Description.
func (r *Rdfizer) Rdfize(input io.Reader, handler lodcache.StatementHandler, baseIRI string) lodcache.Status {
	if err := handler.StartRDF(); err != nil {
		return lodcache.StatusFailure
	}

	dec := xml.NewDecoder(input)
	bnodeSeq := 0

	var subject string
	var subjectIsBNode bool
	inDescription := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return lodcache.StatusParseError
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == rdfNS && t.Name.Local == "Description" {
				subject, subjectIsBNode = resourceOf(t, baseIRI, &bnodeSeq)
				inDescription = true
				continue
			}
			if !inDescription {
				continue
			}

			st := lodcache.Statement{
				Subject:        subject,
				SubjectIsBNode: subjectIsBNode,
				Predicate:      t.Name.Space + t.Name.Local,
			}

			if res, hasRes := attr(t, rdfNS, "resource"); hasRes {
				st.Object = resolveRef(res, baseIRI)
			} else if _, hasNode := attr(t, rdfNS, "nodeID"); hasNode {
				st.Object, _ = resourceOf(t, baseIRI, &bnodeSeq)
				st.ObjectIsBNode = true
			} else {
				text, err := decodeCharData(dec)
				if err != nil {
					return lodcache.StatusParseError
				}
				st.Object = text
				st.ObjectIsLiteral = true
				if lang, ok := attr(t, "http://www.w3.org/XML/1998/namespace", "lang"); ok {
					st.Lang = lang
				}
				if dt, ok := attr(t, rdfNS, "datatype"); ok {
					st.Datatype = dt
				}
			}

			if err := handler.HandleStatement(st); err != nil {
				return lodcache.StatusParseError
			}

		case xml.EndElement:
			if t.Name.Space == rdfNS && t.Name.Local == "Description" {
				inDescription = false
			}
		}
	}

	if err := handler.EndRDF(); err != nil {
		return lodcache.StatusFailure
	}
	return lodcache.StatusSuccess
}

func attr(t xml.StartElement, space, local string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// resourceOf returns the subject/object IRI for an rdf:Description or a
// nested resource element, minting a fresh label for a blank node when
// neither rdf:about nor rdf:nodeID is present.
func resourceOf(t xml.StartElement, baseIRI string, bnodeSeq *int) (string, bool) {
	if about, ok := attr(t, rdfNS, "about"); ok {
		return resolveRef(about, baseIRI), false
	}
	if nodeID, ok := attr(t, rdfNS, "nodeID"); ok {
		return nodeID, true
	}
	*bnodeSeq++
	return "genid" + strconv.Itoa(*bnodeSeq), true
}

func resolveRef(ref, baseIRI string) string {
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "urn:") {
		return ref
	}
	return baseIRI + ref
}

func decodeCharData(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 {
				sb.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return sb.String(), nil
			}
			depth--
		}
	}
}
