// Package ntriples is a self-contained lodcache.RDFizer for N-Triples
// (application/n-triples, text/plain), replacing the external RDF parser
// library the top-level spec keeps out of scope with a minimal, real
// implementation so the engine runs end to end (SPEC_FULL.md §C).
package ntriples

import (
	"bufio"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/fortytwonet/lodcache"
)

// Name is the symbolic RDFizer name recorded on CacheEntry.Rdfizer.
const Name = "ntriples"

// Rdfizer parses the N-Triples line grammar (subject predicate object .)
// one statement per line.
type Rdfizer struct {
	datatypeHandling lodcache.DatatypeHandling
}

// New constructs a Rdfizer honouring the given datatype-handling policy.
func New(handling lodcache.DatatypeHandling) *Rdfizer {
	if handling == "" {
		handling = lodcache.DatatypeIgnore
	}
	return &Rdfizer{datatypeHandling: handling}
}

// Rdfize reads input line by line, emitting one Statement per non-blank,
// non-comment line through handler. A line that cannot be parsed aborts
// with StatusParseError; a datatype rejected under "verify" handling aborts
// with StatusFailure.
func (r *Rdfizer) Rdfize(input io.Reader, handler lodcache.StatementHandler, baseIRI string) lodcache.Status {
	if err := handler.StartRDF(); err != nil {
		return lodcache.StatusFailure
	}

	sc := bufio.NewScanner(input)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		st, err := parseLine(line)
		if err != nil {
			return lodcache.StatusParseError
		}
		if st == nil {
			continue
		}

		if st.ObjectIsLiteral && st.Datatype != "" && r.datatypeHandling != lodcache.DatatypeIgnore {
			if _, err := url.Parse(st.Datatype); err != nil {
				return lodcache.StatusFailure
			}
			if r.datatypeHandling == lodcache.DatatypeNormalize {
				st.Object = strings.TrimSpace(st.Object)
			}
		}

		if err := handler.HandleStatement(*st); err != nil {
			return lodcache.StatusParseError
		}
	}
	if err := sc.Err(); err != nil {
		return lodcache.StatusParseError
	}

	if err := handler.EndRDF(); err != nil {
		return lodcache.StatusFailure
	}
	return lodcache.StatusSuccess
}

// parseLine parses one N-Triples statement line, terminated by " ." (the
// trailing period preceded by whitespace, per the grammar). It returns
// (nil, nil) for a line it deliberately skips (never produced by this
// tokenizer, kept for symmetry with a fuller grammar).
func parseLine(line string) (*lodcache.Statement, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ".")
	line = strings.TrimSpace(line)

	toks, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(toks) != 3 {
		return nil, errParse("expected subject predicate object, got " + strconv.Itoa(len(toks)) + " tokens")
	}

	st := &lodcache.Statement{}

	if strings.HasPrefix(toks[0], "_:") {
		st.Subject = strings.TrimPrefix(toks[0], "_:")
		st.SubjectIsBNode = true
	} else {
		iri, err := unwrapIRI(toks[0])
		if err != nil {
			return nil, err
		}
		st.Subject = iri
	}

	predIRI, err := unwrapIRI(toks[1])
	if err != nil {
		return nil, err
	}
	st.Predicate = predIRI

	switch {
	case strings.HasPrefix(toks[2], "_:"):
		st.Object = strings.TrimPrefix(toks[2], "_:")
		st.ObjectIsBNode = true
	case strings.HasPrefix(toks[2], "\""):
		lex, lang, datatype, err := parseLiteral(toks[2])
		if err != nil {
			return nil, err
		}
		st.Object = lex
		st.ObjectIsLiteral = true
		st.Lang = lang
		st.Datatype = datatype
	default:
		iri, err := unwrapIRI(toks[2])
		if err != nil {
			return nil, err
		}
		st.Object = iri
	}

	return st, nil
}

type errParse string

func (e errParse) Error() string { return string(e) }

// tokenize splits a statement line into its three (or, for a literal
// object with embedded spaces, coalesced) top-level tokens.
func tokenize(line string) ([]string, error) {
	var toks []string
	i := 0
	n := len(line)
	for i < n {
		for i < n && line[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		switch line[i] {
		case '<':
			j := strings.IndexByte(line[i:], '>')
			if j < 0 {
				return nil, errParse("unterminated IRI reference")
			}
			toks = append(toks, line[i:i+j+1])
			i += j + 1
		case '"':
			j := i + 1
			for j < n {
				if line[j] == '\\' {
					j += 2
					continue
				}
				if line[j] == '"' {
					break
				}
				j++
			}
			if j >= n {
				return nil, errParse("unterminated literal")
			}
			end := j + 1
			// consume an optional @lang or ^^<datatype> suffix
			for end < n && line[end] != ' ' {
				end++
			}
			toks = append(toks, line[i:end])
			i = end
		default:
			j := i
			for j < n && line[j] != ' ' {
				j++
			}
			toks = append(toks, line[i:j])
			i = j
		}
	}
	return toks, nil
}

func unwrapIRI(tok string) (string, error) {
	if len(tok) < 2 || tok[0] != '<' || tok[len(tok)-1] != '>' {
		return "", errParse("expected an IRI reference, got " + tok)
	}
	return tok[1 : len(tok)-1], nil
}

// parseLiteral splits a literal token ("lex"@lang or "lex"^^<datatype> or
// bare "lex") into its lexical form, language tag, and datatype IRI.
func parseLiteral(tok string) (lex, lang, datatype string, err error) {
	end := strings.LastIndexByte(tok, '"')
	if end <= 0 || tok[0] != '"' {
		return "", "", "", errParse("malformed literal: " + tok)
	}
	lex = unescapeLiteral(tok[1:end])
	suffix := tok[end+1:]

	switch {
	case suffix == "":
		return lex, "", "", nil
	case strings.HasPrefix(suffix, "@"):
		return lex, suffix[1:], "", nil
	case strings.HasPrefix(suffix, "^^"):
		iri, err := unwrapIRI(suffix[2:])
		if err != nil {
			return "", "", "", err
		}
		return lex, "", iri, nil
	default:
		return "", "", "", errParse("malformed literal suffix: " + suffix)
	}
}

func unescapeLiteral(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
