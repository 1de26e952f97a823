package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
)

func writeDataFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadClasses(t *testing.T) {
	content := `{"className": "com.example.Foo", "javaDoc": "/** A foo. */", "code": "public class Foo {}"}

{"className": "com.example.Bar", "code": "public class Bar {}"}
`
	path := writeDataFile(t, "classes.json", content)

	reader := NewReader(zap.NewNop())
	classes, err := reader.ReadClasses(path)
	if err != nil {
		t.Fatalf("ReadClasses() error = %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("ReadClasses() returned %d classes, want 2", len(classes))
	}
	if classes[0].ClassName != "com.example.Foo" || !classes[0].HasDoc() {
		t.Errorf("first class = %+v", classes[0])
	}
	if classes[1].HasDoc() {
		t.Error("class without javaDoc field should have no doc")
	}
}

func TestReadClassesMalformedLineIsFatal(t *testing.T) {
	path := writeDataFile(t, "classes.json",
		`{"className": "com.example.Foo", "code": "public class Foo {}"}
{broken`)

	reader := NewReader(zap.NewNop())
	if _, err := reader.ReadClasses(path); err == nil {
		t.Fatal("ReadClasses() error = nil, want error for malformed line")
	}
}

func TestReadClassesMissingFile(t *testing.T) {
	reader := NewReader(zap.NewNop())
	if _, err := reader.ReadClasses(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("ReadClasses() error = nil, want error for missing file")
	}
}

func TestReadMethods(t *testing.T) {
	content := `{"src": {"className": "com.example.Foo", "methodName": "bar"}, "code": "public void bar() {}", "dstMethods": [{"className": "com.example.Baz", "methodName": "qux"}]}
{"src": {"className": "com.example.Foo", "methodName": "baz"}, "javaDoc": "/** Documented. */", "code": "public void baz() {}"}
`
	path := writeDataFile(t, "methods.json", content)

	reader := NewReader(zap.NewNop())
	methods, err := reader.ReadMethods(path)
	if err != nil {
		t.Fatalf("ReadMethods() error = %v", err)
	}
	if len(methods) != 2 {
		t.Fatalf("ReadMethods() returned %d methods, want 2", len(methods))
	}

	first := methods[0]
	if first.Src.String() != "com.example.Foo.bar" {
		t.Errorf("first method src = %s", first.Src)
	}
	if len(first.Calls) != 1 || first.Calls[0].Key.String() != "com.example.Baz.qux" {
		t.Errorf("first method calls = %+v", first.Calls)
	}
	if first.Calls[0].Role != model.RoleReference {
		t.Errorf("call role = %v, want reference", first.Calls[0].Role)
	}

	if methods[1].Calls == nil {
		t.Error("method without dstMethods should get an empty call slice, not nil")
	}
}

func TestReadMethodsInvalidKeyIsFatal(t *testing.T) {
	path := writeDataFile(t, "methods.json",
		`{"src": {"className": "", "methodName": "bar"}, "code": "public void bar() {}"}`)

	reader := NewReader(zap.NewNop())
	if _, err := reader.ReadMethods(path); err == nil {
		t.Fatal("ReadMethods() error = nil, want error for invalid method key")
	}
}

func TestReadDataset(t *testing.T) {
	classesPath := writeDataFile(t, "classes.json",
		`{"className": "com.example.Foo", "code": "public class Foo {}"}`)
	methodsPath := writeDataFile(t, "methods.json",
		`{"src": {"className": "com.example.Foo", "methodName": "bar"}, "code": "public void bar() {}"}`)

	reader := NewReader(zap.NewNop())
	ds, err := reader.ReadDataset(classesPath, methodsPath)
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}
	if len(ds.Classes) != 1 || len(ds.Methods) != 1 {
		t.Errorf("dataset = %d classes, %d methods", len(ds.Classes), len(ds.Methods))
	}
	if ds.ClassByName("com.example.Foo") == nil {
		t.Error("class lookup failed after load")
	}
}
