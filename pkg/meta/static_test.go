package meta

import (
	"errors"
	"testing"
)

func TestStaticDefine(t *testing.T) {
	s := NewStatic("java.lang.Object")

	h, err := s.Define(Type{Name: "zoo.Animal"})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if h != "zoo.Animal" {
		t.Errorf("handle = %q, want zoo.Animal", h)
	}

	if _, err := s.Define(Type{Name: "zoo.Animal"}); !errors.Is(err, ErrDuplicateType) {
		t.Errorf("duplicate Define error = %v, want ErrDuplicateType", err)
	}
	if _, err := s.Define(Type{}); err == nil {
		t.Error("Define with empty name should fail")
	}
	if got := s.RootType(); got != "java.lang.Object" {
		t.Errorf("RootType() = %q", got)
	}
}

func TestStaticSuperclass(t *testing.T) {
	s := NewStatic("")
	animal, _ := s.Define(Type{Name: "zoo.Animal"})
	dog, _ := s.Define(Type{Name: "zoo.Dog", Extends: "zoo.Animal"})

	if _, ok, err := s.Superclass(animal); ok || err != nil {
		t.Errorf("Superclass(Animal) = ok %v err %v, want none", ok, err)
	}

	super, ok, err := s.Superclass(dog)
	if err != nil || !ok {
		t.Fatalf("Superclass(Dog) = ok %v err %v", ok, err)
	}
	if super != animal {
		t.Errorf("Superclass(Dog) = %q, want %q", super, animal)
	}

	if _, _, err := s.Superclass("zoo.Missing"); !errors.Is(err, ErrNoSuperclass) {
		t.Errorf("Superclass(missing) error = %v, want ErrNoSuperclass", err)
	}
}

func TestStaticMembersPreserveOrder(t *testing.T) {
	s := NewStatic("")
	attrs := []Attribute{
		{Name: "zeta", Type: "int", Visibility: VisibilityPrivate},
		{Name: "alpha", Type: "String", Visibility: VisibilityPublic},
	}
	h, _ := s.Define(Type{Name: "T", Attributes: attrs, Behaviors: []Behavior{{Name: "b"}, {Name: "a"}}})

	// Mutating the input after Define must not leak into the provider.
	attrs[0].Name = "changed"

	got, err := s.Attributes(h)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Name != "zeta" || got[1].Name != "alpha" {
		t.Errorf("Attributes order = %v", got)
	}

	bs, _ := s.Behaviors(h)
	if bs[0].Name != "b" || bs[1].Name != "a" {
		t.Errorf("Behaviors order = %v", bs)
	}

	if _, err := s.Attributes("nope"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Attributes(unknown) error = %v", err)
	}
}

func TestParseVisibility(t *testing.T) {
	tests := []struct {
		in   string
		want Visibility
	}{
		{"public", VisibilityPublic},
		{"PRIVATE", VisibilityPrivate},
		{" protected ", VisibilityProtected},
		{"package", VisibilityOther},
		{"", VisibilityOther},
	}
	for _, tt := range tests {
		if got := ParseVisibility(tt.in); got != tt.want {
			t.Errorf("ParseVisibility(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSimpleName(t *testing.T) {
	tests := map[string]string{
		"zoo.animals.Dog": "Dog",
		"Dog":             "Dog",
		"":                "",
	}
	for in, want := range tests {
		if got := SimpleName(in); got != want {
			t.Errorf("SimpleName(%q) = %q, want %q", in, got, want)
		}
	}
}
