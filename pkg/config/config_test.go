package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadProductList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.txt")

	content := `# phones to watch
https://www.amazon.in/dp/B0FCML66W9

https://www.amazon.in/dp/B0DGJ6JS1D
  # trailing comment line
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadProductList(path)
	if err != nil {
		t.Fatalf("ReadProductList failed: %v", err)
	}

	want := []string{
		"https://www.amazon.in/dp/B0FCML66W9",
		"https://www.amazon.in/dp/B0DGJ6JS1D",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestReadProductListMissingFile(t *testing.T) {
	if _, err := ReadProductList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
