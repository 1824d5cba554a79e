package syllabletext

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/softkey/syllable"
)

func mustLoadFixture(t *testing.T, file string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", file))
	if err != nil {
		t.Fatalf("cannot read fixture %s: %v", file, err)
	}
	return data
}

func TestReaderSplitsFieldsAndSkipsComments(t *testing.T) {
	src := `% header comment
\name{mini}
ni hao, ma   # greeting

\ignored{directive}
zhong guo
`
	r := NewReader(strings.NewReader(src))
	var got []string
	for {
		s, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, s)
	}
	want := []string{"ni", "hao", "ma", "zhong", "guo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if r.Identifier() != "mini" {
		t.Fatalf("identifier: got %q, want mini", r.Identifier())
	}
}

func TestLoadSyllablesFixture(t *testing.T) {
	data := mustLoadFixture(t, "pinyin-basic.txt")
	tr, err := LoadSyllables("fixture", strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	got := tr.Lookup("64")
	want := []syllable.Syllable{"mi", "ni"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := tr.PrefixSearch("94"); len(got) == 0 {
		t.Fatalf("expected syllables for prefix 94")
	}
}

func TestLoadSyllablesRejectsInvalidEntry(t *testing.T) {
	_, err := LoadSyllables("bad", strings.NewReader("ni\nnü\n"))
	var invalid *syllable.InvalidSyllableError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSyllableError, got %v", err)
	}
}
