package diagram_test

import (
	"fmt"

	"github.com/matzehuels/classdiagram/pkg/diagram"
	"github.com/matzehuels/classdiagram/pkg/meta"
)

func Example() {
	p := meta.NewStatic("")
	animal, _ := p.Define(meta.Type{
		Name:       "zoo.Animal",
		Attributes: []meta.Attribute{{Name: "name", Type: "String", Visibility: meta.VisibilityPrivate}},
		Behaviors:  []meta.Behavior{{Name: "speak", ReturnType: "String"}},
	})
	dog, _ := p.Define(meta.Type{Name: "zoo.Dog", Extends: "zoo.Animal"})

	m := diagram.New(p, diagram.WithTitle("Zoo"))
	m.Add(animal, dog)
	_, _ = m.AddNote("good boy", dog)

	out, _ := diagram.Encode(m)
	fmt.Print(out)
	// Output:
	// @startuml
	// !pragma layout smetana
	// title Zoo
	// class Animal {
	// 	-String name
	// 	+speak() String
	// }
	// class Dog {
	// }
	// Animal <|-- Dog
	// note "good boy" as N0
	// N0 .. Dog
	// @enduml
}

func ExampleConnector_Token() {
	c := diagram.Connector{Kind: diagram.KindComposition, Style: "dashed"}
	fmt.Printf("%q\n", c.Token())
	// Output: " *-[dashed]- "
}
