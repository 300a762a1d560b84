package registry_test

import (
	"testing"

	"github.com/rixlang/rix/internal/registry"
)

func TestCoreDefaultsPresent(t *testing.T) {
	r := registry.New()
	for _, name := range []string{"ADD", "CALL", "ARRAY", "CASE", "AND", "add"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found among core defaults", name)
		}
	}
}

func TestLookupIsCaseNormalized(t *testing.T) {
	r := registry.New()
	upper, ok := r.Lookup("ADD")
	if !ok {
		t.Fatal("ADD not found")
	}
	lower, ok := r.Lookup("add")
	if !ok {
		t.Fatal("add not found")
	}
	if upper != lower {
		t.Errorf("Lookup(ADD) = %+v, Lookup(add) = %+v, want equal", upper, lower)
	}
}

func TestOperatorAliases(t *testing.T) {
	r := registry.New()
	for _, name := range []string{"AND", "OR", "NOT"} {
		if !r.IsOperatorAlias(name) {
			t.Errorf("%s: expected IsOperatorAlias true", name)
		}
	}
	if r.IsOperatorAlias("ADD") {
		t.Error("ADD: expected IsOperatorAlias false, it is a system function, not a textual operator alias")
	}
}

func TestRegisterDoesNotDowngradeTier(t *testing.T) {
	r := registry.New()
	r.Register(registry.Entry{Name: "ADD", Tier: registry.TierUser, Doc: "user entry"})
	before, _ := r.Lookup("ADD")

	r.Register(registry.Entry{Name: "ADD", Tier: registry.TierCore, Doc: "core-tier shadow attempt"})

	after, _ := r.Lookup("ADD")
	if after != before {
		t.Errorf("a lower-tier Register should not have overridden a user-tier entry; got %+v, want %+v", after, before)
	}
}

func TestOverrideAndRestore(t *testing.T) {
	r := registry.New()
	before, _ := r.Lookup("ADD")

	r.Override(registry.Entry{Name: "ADD", Tier: registry.TierUser, Doc: "shadowed"})
	shadowed, ok := r.Lookup("ADD")
	if !ok || shadowed.Doc != "shadowed" {
		t.Fatalf("Override did not take effect, got %+v", shadowed)
	}

	r.Restore("ADD")
	restored, _ := r.Lookup("ADD")
	if restored != before {
		t.Errorf("Restore did not bring back the original entry; got %+v, want %+v", restored, before)
	}
}

func TestRestoreWithNothingToRestoreIsNoop(t *testing.T) {
	r := registry.New()
	before, _ := r.Lookup("SUB")
	r.Restore("SUB")
	after, _ := r.Lookup("SUB")
	if before != after {
		t.Errorf("Restore with no prior Override should be a no-op; got %+v, want %+v", after, before)
	}
}

func TestLookupMissing(t *testing.T) {
	r := registry.New()
	if _, ok := r.Lookup("NOT_A_REAL_NAME"); ok {
		t.Error("expected NOT_A_REAL_NAME to be absent")
	}
}
