package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/magnet/pkg/magnet"
)

func testStage(t *testing.T) *magnet.Stage {
	t.Helper()
	s := magnet.NewStage()
	a, b := magnet.NewView("a"), magnet.NewView("b")
	pulls := []struct {
		v      *magnet.View
		edge   magnet.Pole
		target magnet.PullTarget
	}{
		{a, magnet.PoleLeft, magnet.Pull("stage", magnet.PoleLeft)},
		{a, magnet.PoleRight, magnet.Pull("b", magnet.PoleLeft).Strong()},
		{b, magnet.PoleLeft, magnet.Pull("a", magnet.PoleRight).Strong()},
	}
	for _, p := range pulls {
		if err := p.v.SetPull(p.edge, p.target); err != nil {
			t.Fatalf("SetPull: %v", err)
		}
	}
	g, err := magnet.NewGuideline("g", magnet.Horizontal, 0.25, 0)
	if err != nil {
		t.Fatalf("NewGuideline: %v", err)
	}
	if err := s.Add(a, b, g, magnet.NewBarrier("end", magnet.PoleRight, "a", "b")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return s
}

func TestToDOT(t *testing.T) {
	src := ToDOT(testStage(t), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=TB",
		`"Stage" [label="Stage"`,
		`"a" -> "Stage" [label="Left→Left"]`,
		`"a" -> "b" [label="Right→Left", style=bold`,
		`"b" -> "a" [label="Left→Right", style=bold`,
		`"g" -> "Stage" [style=dashed, label="0.25"]`,
		`"end" -> "a" [style=dotted`,
		`"end" -> "b" [style=dotted`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, src)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	s := testStage(t)
	if _, err := s.Layout(200, 100); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	src := ToDOT(s, Options{Detailed: true, Horizontal: true})

	if !strings.Contains(src, "rankdir=LR") {
		t.Error("ToDOT() missing rankdir=LR")
	}
	if !strings.Contains(src, `Stage\n200x100`) {
		t.Errorf("ToDOT() missing stage size\n%s", src)
	}
	if !strings.Contains(src, `w: m`) {
		t.Errorf("ToDOT() missing size values\n%s", src)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
