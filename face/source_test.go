package face

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestNewSourceEmptyData(t *testing.T) {
	if _, err := NewSource(nil); err != ErrEmptyFontData {
		t.Errorf("NewSource(nil) error = %v, want ErrEmptyFontData", err)
	}
}

func TestNewSourceValid(t *testing.T) {
	s, err := NewSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if s.Name() == "" {
		t.Error("Name() is empty for a valid font")
	}
	if s.Parsed() == nil {
		t.Error("Parsed() is nil")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/path/to/font.ttf", 0)
	if err == nil {
		t.Fatal("Open on a missing file should fail")
	}
	var openErr *OpenError
	if !asOpenError(err, &openErr) {
		t.Errorf("error type = %T, want *OpenError", err)
	}
}

func asOpenError(err error, target **OpenError) bool {
	oe, ok := err.(*OpenError)
	if ok {
		*target = oe
	}
	return ok
}
