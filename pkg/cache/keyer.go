package cache

// LayoutKeyOpts are the options that change a solved layout.
type LayoutKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Policy string  `json:"policy"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Margins     bool    `json:"margins"`
	Guides      bool    `json:"guides"`
	Interaction bool    `json:"interaction"`
	Scale       float64 `json:"scale"`
}

// GraphKeyOpts are the options that change a rendered pull graph.
type GraphKeyOpts struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed"`
	Horizontal bool   `json:"horizontal"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	GraphKey(sceneHash string, opts GraphKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(sceneHash string, opts GraphKeyOpts) string {
	return hashKey("graph", sceneHash, opts)
}
