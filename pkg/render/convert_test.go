package render

import (
	"testing"

	"github.com/matzehuels/magnet/pkg/errors"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPNG_BadScale(t *testing.T) {
	if _, err := ToPNG([]byte(square), 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ToPNG(scale 0) = %v, want INVALID_INPUT", err)
	}
}

func TestConvert(t *testing.T) {
	if !Available() {
		_, err := ToPDF([]byte(square))
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ToPDF without converter = %v, want UNSUPPORTED", err)
		}
		return
	}

	png, err := ToPNG([]byte(square), 2)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("ToPNG did not return a PNG")
	}
	pdf, err := ToPDF([]byte(square))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Errorf("ToPDF did not return a PDF")
	}
}
