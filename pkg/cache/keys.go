package cache

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// DatasetKey keys the parsed, validated records of a source.
	DatasetKey(source string) string

	// LayoutKey keys a computed layout.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	VizType      string  `json:"viz_type"`
	XAxis        string  `json:"x"`
	YAxis        string  `json:"y"`
	Category     string  `json:"category,omitempty"`
	Query        string  `json:"query,omitempty"`
	JitterAmount float64 `json:"jitter"`
	Radius       float64 `json:"radius"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Margin       float64 `json:"margin"`
	Zoom         float64 `json:"zoom"`
	PanX         float64 `json:"pan_x"`
	PanY         float64 `json:"pan_y"`

	// Nodelink layouts bake in colors and labels.
	Theme    string `json:"theme,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Theme   string `json:"theme"`
	Popups  bool   `json:"popups,omitempty"`
	Details bool   `json:"details,omitempty"`
	Labels  bool   `json:"labels,omitempty"`
	Logos   bool   `json:"logos,omitempty"`
}

// DefaultKeyer produces "kind:" prefixed keys with a SHA-256 of the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// DatasetKey returns "dataset:<hash(source)>".
func (DefaultKeyer) DatasetKey(source string) string {
	return hashKey("dataset", source)
}

// LayoutKey returns "layout:<hash(datasetHash, opts)>".
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

// ArtifactKey returns "artifact:<hash(layoutHash, opts)>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
