package httpderef

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

type fakeRedirects struct {
	recorded []string
}

func (f *fakeRedirects) Record(ctx context.Context, source, target string) error {
	f.recorded = append(f.recorded, source+" -> "+target)
	return nil
}

func alwaysStale(ctx context.Context, iri string) (bool, error) { return false, nil }

func TestDereferenceFetchesSuccessfully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rdf+xml; charset=utf-8")
		w.Write([]byte("<rdf:RDF></rdf:RDF>"))
	}))
	defer srv.Close()

	d := New(srv.Client(), "application/rdf+xml", nil, nil, zerolog.Nop())
	rep, err := d.Dereference(srv.URL + "/doc")
	if err != nil {
		t.Fatalf("Dereference: %v", err)
	}
	defer rep.Stream.Close()

	if rep.MediaType != "application/rdf+xml" {
		t.Fatalf("MediaType = %q, want %q", rep.MediaType, "application/rdf+xml")
	}
	body, _ := io.ReadAll(rep.Stream)
	if string(body) != "<rdf:RDF></rdf:RDF>" {
		t.Fatalf("body = %q", body)
	}
}

func TestDereferenceBlockedExtensionErrors(t *testing.T) {
	d := New(nil, "", nil, nil, zerolog.Nop())
	if _, err := d.Dereference("http://ex/image.png"); err == nil {
		t.Fatal("expected an error for a blocked extension")
	}
}

func TestDereferenceRedirectToFreshTargetShortCircuits(t *testing.T) {
	var target string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		t.Fatalf("unexpected request to %s; redirect should have short-circuited", r.URL.Path)
	}))
	defer srv.Close()
	target = srv.URL + "/new"

	redirects := &fakeRedirects{}
	alwaysFresh := func(ctx context.Context, iri string) (bool, error) { return true, nil }

	d := New(srv.Client(), "", redirects, alwaysFresh, zerolog.Nop())
	rep, err := d.Dereference(srv.URL + "/old")
	if err != nil {
		t.Fatalf("Dereference: %v", err)
	}
	if rep != nil {
		t.Fatalf("expected nil Representation for a redirect to a fresh target, got %+v", rep)
	}
	if len(redirects.recorded) != 1 {
		t.Fatalf("expected the redirect to be recorded, got %v", redirects.recorded)
	}
}

func TestDereferenceRedirectToStaleTargetFollowsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hi"))
	}))
	defer srv.Close()

	d := New(srv.Client(), "", nil, alwaysStale, zerolog.Nop())
	rep, err := d.Dereference(srv.URL + "/old")
	if err != nil {
		t.Fatalf("Dereference: %v", err)
	}
	defer rep.Stream.Close()
	body, _ := io.ReadAll(rep.Stream)
	if string(body) != "hi" {
		t.Fatalf("body = %q", body)
	}
}

func TestDereferenceNotModifiedShortCircuits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	d := New(srv.Client(), "", nil, nil, zerolog.Nop())
	rep, err := d.Dereference(srv.URL + "/doc")
	if err != nil {
		t.Fatalf("Dereference: %v", err)
	}
	if rep != nil {
		t.Fatalf("expected nil Representation for 304, got %+v", rep)
	}
}

func TestDereferenceServerErrorReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := New(srv.Client(), "", nil, nil, zerolog.Nop())
	if _, err := d.Dereference(srv.URL + "/doc"); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
