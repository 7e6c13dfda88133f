package models

// Operation is the flat view of one documented operation used by inspect
// and the operation exports
type Operation struct {
	Path        string   `json:"path" yaml:"path"`
	Method      string   `json:"method" yaml:"method"`
	OperationID string   `json:"operation_id" yaml:"operation_id"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags        []string `json:"tags" yaml:"tags"`
	Deprecated  bool     `json:"deprecated" yaml:"deprecated"`
	Callback    bool     `json:"callback" yaml:"callback"`
	ServerURL   string   `json:"server_url,omitempty" yaml:"server_url,omitempty"`
	FullPath    string   `json:"full_path" yaml:"full_path"` // ServerURL + Path
}
