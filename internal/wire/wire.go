// Package wire defines the Go-native shapes of the §6 external interface.
// The wire encoding itself is JSON (see SPEC_FULL.md's wire-encoding Open
// Question); these types are what the RPC surface marshals to and from.
package wire

// AnalysisRequest mirrors the proto message of the same name.
type AnalysisRequest struct {
	RequestID string            `json:"request_id"`
	Algorithm string            `json:"algorithm"`
	Data      []float64         `json:"data"`
	Params    map[string]string `json:"params"`
	Options   AnalysisOptions   `json:"options"`
}

// AnalysisOptions mirrors AnalysisOptions.
type AnalysisOptions struct {
	PreferNative     *bool  `json:"prefer_native,omitempty"`
	AllowInterpreted *bool  `json:"allow_interpreted,omitempty"`
	TimeoutMS        uint32 `json:"timeout_ms,omitempty"`
	IncludeMetadata  bool   `json:"include_metadata,omitempty"`
}

// PreferNativeOrDefault returns PreferNative, defaulting to true (§3).
func (o AnalysisOptions) PreferNativeOrDefault() bool {
	if o.PreferNative == nil {
		return true
	}
	return *o.PreferNative
}

// AllowInterpretedOrDefault returns AllowInterpreted, defaulting to true (§3).
func (o AnalysisOptions) AllowInterpretedOrDefault() bool {
	if o.AllowInterpreted == nil {
		return true
	}
	return *o.AllowInterpreted
}

// AnalysisResponse mirrors AnalysisResponse. ResultJSON is carried as a
// raw string (not nested JSON) per §3: "result_json: canonical JSON
// string encoding the algorithm output".
type AnalysisResponse struct {
	RequestID    string            `json:"request_id"`
	Success      bool              `json:"success"`
	ResultJSON   string            `json:"result_json"`
	ErrorCode    string            `json:"error_code,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Metadata     *AnalysisMetadata `json:"metadata,omitempty"`
}

// AnalysisMetadata mirrors AnalysisMetadata.
type AnalysisMetadata struct {
	Tier           string `json:"tier"`
	Algorithm      string `json:"algorithm"`
	InputLength    uint64 `json:"input_length"`
	DurationMS     int64  `json:"duration_ms"`
	ServerVersion  string `json:"server_version"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// BatchRequest mirrors BatchRequest.
type BatchRequest struct {
	BatchID  string            `json:"batch_id"`
	Requests []AnalysisRequest `json:"requests"`
}

// Capability mirrors Capability.
type Capability struct {
	Name                 string `json:"name"`
	NativeSupported      bool   `json:"native_supported"`
	InterpretedSupported bool   `json:"interpreted_supported"`
	ParamSchemaJSON      string `json:"param_schema_json"`
	MinInputLength       uint64 `json:"min_input_length"`
}

// CapabilityList mirrors CapabilityList.
type CapabilityList struct {
	Capabilities []Capability `json:"capabilities"`
}

// HealthRequest mirrors HealthRequest (currently empty).
type HealthRequest struct{}

// HealthResponse mirrors HealthResponse.
type HealthResponse struct {
	Healthy           bool   `json:"healthy"`
	Version           string `json:"version"`
	CapabilitiesCount int    `json:"capabilities_count"`
}
