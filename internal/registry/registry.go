package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"analyticsengine/pkg/kernel"
)

// Registry is the immutable, process-lived capability table. It is built
// once by New and never mutated afterward, so concurrent Lookup/Iter calls
// need no locking.
type Registry struct {
	byName map[string]Capability
	names  []string // sorted, for stable Iter order
}

// New builds the static capability table (§3, §4.2). The set of algorithms
// is fixed at compile time; there is no runtime registration path.
func New() *Registry {
	caps := []Capability{
		{
			Name:            "mean",
			NativeSupported: true,
			MinInputLength:  1,
			NumericDomain:   DomainNaNTolerant,
			ParamSchema: []ParamSpec{
				{Name: "skip_nan", Kind: KindBool, Default: "false"},
			},
		},
		{
			Name:            "median",
			NativeSupported: true,
			MinInputLength:  1,
			NumericDomain:   DomainFiniteOnly,
			ParamSchema: []ParamSpec{
				{Name: "interpolation", Kind: KindString, Default: "linear",
					Enum: []string{"linear", "lower", "higher", "midpoint"}},
			},
		},
		{
			Name:            "variance",
			NativeSupported: true,
			MinInputLength:  2,
			NumericDomain:   DomainFiniteOnly,
			ParamSchema: []ParamSpec{
				{Name: "ddof", Kind: KindUint, Default: "1"},
			},
		},
		{
			Name:            "std",
			NativeSupported: true,
			MinInputLength:  2,
			NumericDomain:   DomainFiniteOnly,
			ParamSchema: []ParamSpec{
				{Name: "ddof", Kind: KindUint, Default: "1"},
			},
		},
		{
			Name:            "percentile",
			NativeSupported: true,
			MinInputLength:  1,
			NumericDomain:   DomainFiniteOnly,
			ParamSchema: []ParamSpec{
				{Name: "p", Kind: KindFloats, Required: true},
				{Name: "interpolation", Kind: KindString, Default: "linear",
					Enum: []string{"linear", "lower", "higher", "midpoint"}},
			},
		},
		{
			Name:            "correlation",
			NativeSupported: true,
			MinInputLength:  2,
			NumericDomain:   DomainFiniteOnly,
			ParamSchema: []ParamSpec{
				{Name: "lag", Kind: KindUint, Default: "1"},
			},
		},
		{
			Name:            "summary",
			NativeSupported: true,
			MinInputLength:  4,
			NumericDomain:   DomainFiniteOnly,
		},
		// Interpreted-tier-only algorithms: the native kernel has no
		// equivalent, so NativeSupported is false and the dispatcher never
		// considers the native tier for these regardless of PreferNative.
		{
			Name:                 "kmeans",
			InterpretedSupported: true,
			MinInputLength:       2,
			NumericDomain:        DomainFiniteOnly,
			ParamSchema: []ParamSpec{
				{Name: "k", Kind: KindUint, Required: true},
				{Name: "max_iterations", Kind: KindUint, Default: "100"},
			},
		},
		{
			Name:                 "linear_trend",
			InterpretedSupported: true,
			MinInputLength:       2,
			NumericDomain:        DomainFiniteOnly,
		},
	}

	r := &Registry{byName: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		r.byName[c.Name] = c
		r.names = append(r.names, c.Name)
	}
	sort.Strings(r.names)
	return r
}

// Lookup returns the capability for algorithm, or ok=false if unregistered.
func (r *Registry) Lookup(algorithm string) (Capability, bool) {
	c, ok := r.byName[algorithm]
	return c, ok
}

// Iter returns all capabilities in stable, sorted-by-name order, for
// ListCapabilities responses.
func (r *Registry) Iter() []Capability {
	out := make([]Capability, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}

// NormalizedParams is the result of validating a request's raw string
// params against a capability's ParamSchema: defaults applied, enums
// checked, numeric params pre-parsed so kernel callers never re-parse.
type NormalizedParams struct {
	Floats  map[string]float64
	Uints   map[string]uint64
	Strings map[string]string
	Bools   map[string]bool
	Lists   map[string][]float64
}

func newNormalizedParams() NormalizedParams {
	return NormalizedParams{
		Floats:  map[string]float64{},
		Uints:   map[string]uint64{},
		Strings: map[string]string{},
		Bools:   map[string]bool{},
		Lists:   map[string][]float64{},
	}
}

// ValidateParams coerces and validates raw against the capability's
// ParamSchema: missing required params, unparseable values, and
// out-of-enum strings all fail closed with a *kernel.Error so the caller
// (the pipeline) can map it onto the same InvalidArgument vocabulary used
// by the kernel itself, per §4.3's "registry validates before dispatch"
// rule.
func (c Capability) ValidateParams(raw map[string]string) (NormalizedParams, *kernel.Error) {
	out := newNormalizedParams()

	for _, spec := range c.ParamSchema {
		v, present := raw[spec.Name]
		if !present {
			if spec.Required {
				return out, paramMissing(spec.Name)
			}
			v = spec.Default
		}
		if v == "" && !spec.Required {
			v = spec.Default
		}

		switch spec.Kind {
		case KindFloat:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return out, paramInvalid(spec.Name, v)
			}
			out.Floats[spec.Name] = f
		case KindUint:
			u, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return out, paramInvalid(spec.Name, v)
			}
			out.Uints[spec.Name] = u
		case KindBool:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return out, paramInvalid(spec.Name, v)
			}
			out.Bools[spec.Name] = b
		case KindString:
			if len(spec.Enum) > 0 && !contains(spec.Enum, v) {
				return out, paramOutOfEnum(spec.Name, v, spec.Enum)
			}
			out.Strings[spec.Name] = v
		case KindFloats:
			list, kerr := kernel.ParsePercentileList(v)
			if kerr != nil {
				return out, kerr
			}
			out.Lists[spec.Name] = list
		}
	}
	return out, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func paramMissing(name string) *kernel.Error {
	return kernel.NewError(kernel.ParamMissing, fmt.Sprintf("missing required parameter: %s", name))
}

func paramInvalid(name, got string) *kernel.Error {
	return kernel.NewError(kernel.ParamOutOfRange, fmt.Sprintf("parameter %s: cannot parse %q", name, got))
}

func paramOutOfEnum(name, got string, enum []string) *kernel.Error {
	return kernel.NewError(kernel.ParamOutOfRange,
		fmt.Sprintf("parameter %s: %q is not one of %v", name, got, enum))
}
