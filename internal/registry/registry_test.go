package registry

import (
	"testing"

	"analyticsengine/pkg/kernel"
)

func TestLookupKnownAlgorithm(t *testing.T) {
	r := New()
	c, ok := r.Lookup("mean")
	if !ok {
		t.Fatalf("expected mean to be registered")
	}
	if !c.NativeSupported {
		t.Fatalf("expected mean to be native-supported")
	}
}

func TestLookupUnknownAlgorithm(t *testing.T) {
	r := New()
	if _, ok := r.Lookup("does-not-exist"); ok {
		t.Fatalf("expected unknown algorithm to miss")
	}
}

func TestIterIsSortedAndStable(t *testing.T) {
	r := New()
	first := r.Iter()
	second := r.Iter()
	if len(first) != len(second) {
		t.Fatalf("Iter length changed between calls")
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Fatalf("Iter order not stable at index %d", i)
		}
		if i > 0 && first[i-1].Name > first[i].Name {
			t.Fatalf("Iter not sorted: %s before %s", first[i-1].Name, first[i].Name)
		}
	}
}

func TestValidateParamsAppliesDefault(t *testing.T) {
	r := New()
	c, _ := r.Lookup("variance")
	np, err := c.ValidateParams(map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if np.Uints["ddof"] != 1 {
		t.Fatalf("ddof default = %d, want 1", np.Uints["ddof"])
	}
}

func TestValidateParamsRequiredMissing(t *testing.T) {
	r := New()
	c, _ := r.Lookup("percentile")
	_, err := c.ValidateParams(map[string]string{})
	if err == nil || err.Code != kernel.ParamMissing {
		t.Fatalf("expected ParamMissing, got %v", err)
	}
}

func TestValidateParamsEnumRejection(t *testing.T) {
	r := New()
	c, _ := r.Lookup("median")
	_, err := c.ValidateParams(map[string]string{"interpolation": "bogus"})
	if err == nil || err.Code != kernel.ParamOutOfRange {
		t.Fatalf("expected ParamOutOfRange, got %v", err)
	}
}

func TestValidateParamsAcceptsMidpointInterpolation(t *testing.T) {
	r := New()
	c, _ := r.Lookup("median")
	np, err := c.ValidateParams(map[string]string{"interpolation": "midpoint"})
	if err != nil {
		t.Fatalf("expected midpoint to be a valid interpolation, got %v", err)
	}
	if np.Strings["interpolation"] != "midpoint" {
		t.Fatalf("interpolation = %q, want midpoint", np.Strings["interpolation"])
	}
}

func TestValidateParamsFloatList(t *testing.T) {
	r := New()
	c, _ := r.Lookup("percentile")
	np, err := c.ValidateParams(map[string]string{"p": "10,50,90"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(np.Lists["p"]) != 3 {
		t.Fatalf("expected 3 percentiles, got %d", len(np.Lists["p"]))
	}
}

func TestInterpretedOnlyAlgorithmNotNativeSupported(t *testing.T) {
	r := New()
	c, ok := r.Lookup("kmeans")
	if !ok {
		t.Fatalf("expected kmeans to be registered")
	}
	if c.NativeSupported {
		t.Fatalf("kmeans must not be native-supported")
	}
	if !c.InterpretedSupported {
		t.Fatalf("kmeans must be interpreted-supported")
	}
}
