package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

// AssertGoldenJSON compares got, encoded as indented JSON, with the golden
// file at path. Whitespace differences are ignored.
func AssertGoldenJSON(t testing.TB, path string, got any) {
	t.Helper()

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	encoded, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshal value for golden %s: %v", path, err)
	}

	var wantBuf, gotBuf bytes.Buffer
	if err := json.Compact(&wantBuf, want); err != nil {
		t.Fatalf("compact golden %s: %v", path, err)
	}
	if err := json.Compact(&gotBuf, encoded); err != nil {
		t.Fatalf("compact value: %v", err)
	}
	if !bytes.Equal(wantBuf.Bytes(), gotBuf.Bytes()) {
		t.Fatalf("golden mismatch for %s:\n got %s\nwant %s", path, gotBuf.String(), wantBuf.String())
	}
}
