// Package scene loads declarative layout scenes and builds magnet stages
// from them.
//
// A scene document names the stage size, the missing-target policy and the
// elements to place. Documents can be written in YAML, TOML or JSON:
//
//	stage:
//	  width: 320
//	  policy: strict
//	elements:
//	  - id: avatar
//	    content: {width: 48, height: 48}
//	    anchors:
//	      leftToLeftOf: parent | 16
//	      topToTopOf: parent | 16
//	  - id: name
//	    width: "*"
//	    content: {text: "Ada Lovelace", charWidth: 8, lineHeight: 18}
//	    pulls:
//	      left: avatar.Right
//	      right: Stage.Right
//	      top: avatar.Top
//	    margin: "12 0"
//
// Views are backed by [Box] host views that report either a fixed content
// size or the extent of word-wrapped text, so a view that gets narrower than
// its text grows taller on the next measure.
//
//	doc, err := scene.Load("card.yaml")
//	sc, err := scene.Build(doc)
//	l, err := sc.Solve()
package scene
