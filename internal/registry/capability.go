// Package registry implements the Capability Registry (C3): a static,
// process-lived table built once at start-up and never mutated again.
package registry

// ParamKind is the declared type of one capability parameter.
type ParamKind string

const (
	KindFloat  ParamKind = "float"
	KindUint   ParamKind = "uint"
	KindString ParamKind = "string"
	KindBool   ParamKind = "bool"
	KindFloats ParamKind = "float_list" // comma-separated, e.g. percentile's "p"
)

// ParamSpec describes one named parameter accepted by an algorithm.
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
	Default  string
	Enum     []string // non-empty restricts accepted string values
}

// NumericDomain constrains what kind of float values an algorithm tolerates.
type NumericDomain string

const (
	DomainFiniteOnly  NumericDomain = "finite-only"
	DomainNaNTolerant NumericDomain = "nan-tolerant"
)

// Capability is one registry entry (§3, §4.3).
type Capability struct {
	Name                 string
	NativeSupported      bool
	InterpretedSupported bool
	ParamSchema          []ParamSpec
	MinInputLength       int
	AcceptsEmptyInput    bool
	NumericDomain        NumericDomain
}

// ParamSchemaNames returns the declared parameter names, for logging and
// the ListCapabilities param_schema_json rendering.
func (c Capability) ParamSchemaNames() []string {
	names := make([]string, len(c.ParamSchema))
	for i, p := range c.ParamSchema {
		names[i] = p.Name
	}
	return names
}
