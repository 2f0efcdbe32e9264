package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/studyhub/internal/cms"
	"github.com/studyhub/internal/mapper"
	"github.com/studyhub/internal/model"
	"github.com/studyhub/internal/queries"
	"go.uber.org/zap"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"slug=visa-guide", " category = a=b"})
	if err != nil {
		t.Fatalf("parseParams returned error: %v", err)
	}
	want := cms.Params{"slug": "visa-guide", "category": " a=b"}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Fatalf("unexpected params (-want +got):\n%s", diff)
	}

	if params, err := parseParams(nil); err != nil || params != nil {
		t.Fatalf("expected nil params, got %v %v", params, err)
	}

	for _, bad := range []string{"slug", "=value"} {
		if _, err := parseParams([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMapResultCoversEveryQuery(t *testing.T) {
	m := mapper.New(zap.NewNop())
	for _, q := range queries.All() {
		if _, err := mapResult(m, q.Name, json.RawMessage("null")); err != nil {
			t.Fatalf("%s: unexpected error %v", q.Name, err)
		}
	}
	if _, err := mapResult(m, "nope", json.RawMessage("null")); !errors.Is(err, queries.ErrUnknownQuery) {
		t.Fatalf("expected ErrUnknownQuery, got %v", err)
	}
}

func TestWriteResultFormats(t *testing.T) {
	items := []model.FAQItem{{ID: "q1", Question: "Visa?"}}

	var buf bytes.Buffer
	if err := writeResult(&buf, "json", items); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(buf.String(), `"question": "Visa?"`) {
		t.Fatalf("unexpected json output %s", buf.String())
	}

	buf.Reset()
	if err := writeResult(&buf, "yaml", items); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "question: Visa?") {
		t.Fatalf("unexpected yaml output %s", buf.String())
	}

	buf.Reset()
	if err := writeResult(&buf, "yaml", json.RawMessage(`{"result":[1,2]}`)); err != nil {
		t.Fatalf("raw yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "result:") {
		t.Fatalf("unexpected raw yaml output %s", buf.String())
	}

	if err := writeResult(&buf, "xml", items); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
