package model

// ConnectorInfo is a connector's static identity. Descriptive metadata only;
// execution logic never branches on it.
type ConnectorInfo struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Type    SourceType `json:"type"`
	Version string     `json:"version"`
}

// Capabilities declares what a connector can do. Used by selection and
// documentation, not by the fetch path.
type Capabilities struct {
	RealTime    bool `json:"real_time"`
	Historical  bool `json:"historical"`
	Predictive  bool `json:"predictive"`
	CrossSource bool `json:"cross_source"`
}
