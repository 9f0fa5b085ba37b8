package lodcache

import "testing"

func TestPipelineRewritesContext(t *testing.T) {
	handler, buffer := newPipeline("http://ex/graph", true)

	if err := handler.HandleStatement(Statement{Subject: "http://ex/s", Predicate: "http://ex/p", Object: "http://ex/o", Context: "http://other/graph"}); err != nil {
		t.Fatalf("HandleStatement: %v", err)
	}

	if len(buffer.statements) != 1 {
		t.Fatalf("buffer has %d statements, want 1", len(buffer.statements))
	}
	if got := buffer.statements[0].Context; got != "http://ex/graph" {
		t.Fatalf("Context = %q, want rewritten to graph IRI", got)
	}
}

func TestPipelineMintsIRIsForBlankNodes(t *testing.T) {
	handler, buffer := newPipeline("http://ex/graph", false)

	if err := handler.HandleStatement(Statement{Subject: "b1", SubjectIsBNode: true, Predicate: "http://ex/p", Object: "b1", ObjectIsBNode: true}); err != nil {
		t.Fatalf("HandleStatement: %v", err)
	}

	st := buffer.statements[0]
	if st.SubjectIsBNode || st.ObjectIsBNode {
		t.Fatal("blank node flags should be cleared once replaced with minted IRIs")
	}
	if st.Subject != st.Object {
		t.Fatalf("same blank node label should map to the same minted IRI: subject=%q object=%q", st.Subject, st.Object)
	}
	if st.Subject == "b1" {
		t.Fatal("blank node label should have been replaced with a minted IRI")
	}
}

func TestBufferDiscardedOnNonSuccess(t *testing.T) {
	_, buffer := newPipeline("http://ex/graph", true)
	buffer.add(Statement{Subject: "s", Predicate: "p", Object: "o"})
	buffer.discard()
	if len(buffer.statements) != 0 {
		t.Fatal("discard should clear the buffer")
	}
}
