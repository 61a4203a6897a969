// Package pkg holds the libraries behind the magnet layout engine.
//
// # Overview
//
// Magnet positions views, guidelines and barriers on a stage by turning
// "pull this edge toward that edge" relationships into linear constraints
// and solving them incrementally. The packages are layered:
//
//  1. [solver] - incremental Cassowary constraint solver
//  2. [magnet] - stage, elements, pulls and the measure/arrange driver
//  3. [anchor] - anchor-style front end (leftToLeftOf: "parent | 16")
//  4. [scene] - YAML/TOML/JSON scene documents built into a stage
//  5. [layout] - solved blocks, the output of one layout pass
//  6. [sink] and [render] - SVG, JSON, PNG and PDF output, and the pull graph
//  7. [pipeline] - load → solve → render with caching
//
// # Data Flow
//
//	scene file (yaml/toml/json)
//	         ↓
//	    [scene] package (parse, validate, build stage)
//	         ↓
//	    [magnet] package (measure, constrain, solve, arrange)
//	         ↓
//	    [layout] package (blocks)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
//	doc, _ := scene.Load("card.yaml")
//	sc, _ := scene.Build(doc)
//	l, _ := sc.SolveAt(320, 200)
//	svg := sink.RenderSVG(l)
//
// The [pipeline] package wraps the same steps with caching and is what the
// CLI and HTTP server use.
//
// [solver]: github.com/matzehuels/magnet/pkg/solver
// [magnet]: github.com/matzehuels/magnet/pkg/magnet
// [anchor]: github.com/matzehuels/magnet/pkg/anchor
// [scene]: github.com/matzehuels/magnet/pkg/scene
// [layout]: github.com/matzehuels/magnet/pkg/layout
// [sink]: github.com/matzehuels/magnet/pkg/sink
// [render]: github.com/matzehuels/magnet/pkg/render
// [pipeline]: github.com/matzehuels/magnet/pkg/pipeline
package pkg
