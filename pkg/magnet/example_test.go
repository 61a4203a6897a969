package magnet_test

import (
	"fmt"

	"github.com/matzehuels/magnet/pkg/magnet"
)

type box struct{ w, h float64 }

func (b box) Measure(float64, float64) magnet.Size { return magnet.Size{Width: b.w, Height: b.h} }
func (b box) Visibility() magnet.Visibility          { return magnet.Visible }
func (b box) Arrange(r magnet.Rect) magnet.Size      { return magnet.Size{Width: r.Width, Height: r.Height} }

func Example() {
	boxes := map[string]box{"a": {20, 10}, "b": {20, 10}, "c": {20, 10}}
	host := magnet.ViewSourceFunc(func(id string) (magnet.HostView, bool) {
		b, ok := boxes[id]
		return b, ok
	})
	stage := magnet.NewStage(magnet.WithViewSource(host))

	// A soft chain spreads its views evenly across the stage.
	a, b, c := magnet.NewView("a"), magnet.NewView("b"), magnet.NewView("c")
	_ = a.SetPull(magnet.PoleLeft, magnet.Pull(magnet.StageID, magnet.PoleLeft))
	_ = a.SetPull(magnet.PoleRight, magnet.Pull("b", magnet.PoleLeft))
	_ = b.SetPull(magnet.PoleLeft, magnet.Pull("a", magnet.PoleRight))
	_ = b.SetPull(magnet.PoleRight, magnet.Pull("c", magnet.PoleLeft))
	_ = c.SetPull(magnet.PoleLeft, magnet.Pull("b", magnet.PoleRight))
	_ = c.SetPull(magnet.PoleRight, magnet.Pull(magnet.StageID, magnet.PoleRight))
	if err := stage.Add(a, b, c); err != nil {
		fmt.Println(err)
		return
	}

	if _, err := stage.Layout(100, 10); err != nil {
		fmt.Println(err)
		return
	}
	for _, el := range stage.Elements() {
		r := el.Bounds()
		fmt.Printf("%s: %.0f..%.0f\n", el.ID(), r.X, r.Right())
	}
	// Output:
	// a: 10..30
	// b: 40..60
	// c: 70..90
}

func ExampleParseSizeValue() {
	for _, s := range []string{"auto", "50%", "3*", "0.5r~"} {
		sv, err := magnet.ParseSizeValue(s)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%-6s unit=%s multiplier=%g shrink=%v\n", s, sv.Unit, sv.Multiplier, sv.Behavior == magnet.BehaviorShrink)
	}
	// Output:
	// auto   unit=measured multiplier=1 shrink=false
	// 50%    unit=stage multiplier=0.5 shrink=false
	// 3*     unit=constraint multiplier=3 shrink=false
	// 0.5r~  unit=ratio multiplier=0.5 shrink=true
}

func ExampleParsePullTarget() {
	t, err := magnet.ParsePullTarget("header.Bottom!")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(t.ElementID, t.Pole, t.Traction)
	// Output: header Bottom strong
}
