package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"approxc/internal/driver"
	"approxc/internal/project"
)

const markersSrc = `APPROX int a;
void sink(int *p);
int f(void) {
	sink(DEDORSE(&a));
	return ENDORSE(a);
}
`

func collectSource(t *testing.T, name, src string) Report {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := driver.CheckFile(context.Background(), path, driver.Options{
		MaxDiagnostics: 50,
		Config:         project.Default(),
		Lower:          true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return Collect(res, dir)
}

func TestCollectSites(t *testing.T) {
	rep := collectSource(t, "m.c", markersSrc)
	if rep.Total != 2 || rep.Endorse != 1 || rep.Dedorse != 1 {
		t.Fatalf("unexpected totals: %+v", rep)
	}
	if len(rep.Units) != 1 || !rep.Units[0].Accepted {
		t.Fatalf("expected one accepted unit, got %+v", rep.Units)
	}
	type view struct {
		ID   uint32
		Dir  string
		Func string
		Line uint32
	}
	var got []view
	for _, s := range rep.Units[0].Sites {
		got = append(got, view{s.ID, s.Direction, s.Func, s.Line})
		if s.File != "m.c" {
			t.Fatalf("file = %q, want m.c", s.File)
		}
		if s.Instr < 0 {
			t.Fatalf("site #%d not bound to a marker instruction", s.ID)
		}
		if s.Operand == "" {
			t.Fatalf("site #%d has no operand type", s.ID)
		}
	}
	want := []view{{1, "DEDORSE", "f", 4}, {2, "ENDORSE", "f", 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sites mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectSkipsUnitsWithSyntaxErrors(t *testing.T) {
	rep := collectSource(t, "bad.c", "int f(void) { return ENDORSE(; }\n")
	if len(rep.Units) != 1 || !rep.Units[0].Skipped || rep.Total != 0 {
		t.Fatalf("expected skipped unit, got %+v", rep)
	}
}

func TestRejectedUnitStillListsSites(t *testing.T) {
	src := "APPROX int a;\nint f(void) { int y = ENDORSE(a); return a; }\n"
	rep := collectSource(t, "r.c", src)
	u := rep.Units[0]
	if u.Accepted || len(u.Sites) != 1 || u.Sites[0].Instr != -1 {
		t.Fatalf("unexpected unit: %+v", u)
	}
}

func TestWriteFormats(t *testing.T) {
	rep := collectSource(t, "m.c", markersSrc)

	var jbuf bytes.Buffer
	if err := Write(&jbuf, rep, FormatJSON, false); err != nil {
		t.Fatal(err)
	}
	var fromJSON Report
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rep, fromJSON); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	var ybuf bytes.Buffer
	if err := Write(&ybuf, rep, FormatYAML, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ybuf.String(), "direction: DEDORSE") {
		t.Fatalf("yaml output missing direction:\n%s", ybuf.String())
	}
	var fromYAML Report
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if fromYAML.Total != 2 {
		t.Fatalf("yaml total = %d", fromYAML.Total)
	}

	text := Text(rep, false)
	for _, want := range []string{"m.c\n", "#1", "DEDORSE", "4:", "in f", "sentinel=0xDED0", "2 escape sites (1 ENDORSE, 1 DEDORSE)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
