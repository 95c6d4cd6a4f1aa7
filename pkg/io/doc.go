// Package io reads diagram manifests and persists encoded descriptions.
//
// # Manifests
//
// A manifest describes types, relationships and notes by hand, in TOML or
// JSON. [ImportManifest] picks the format from the file extension:
//
//	title = "Zoo"
//	root = "java.lang.Object"
//
//	[[types]]
//	name = "zoo.Animal"
//	attributes = [{ name = "name", type = "String", visibility = "private" }]
//	behaviors = [{ name = "speak", returns = "void" }]
//
//	[[types]]
//	name = "zoo.Dog"
//	extends = "zoo.Animal"
//
//	[[relationships]]
//	source = "zoo.Dog"
//	target = "zoo.Kennel"
//	kind = "Aggregation"
//	style = "dashed"
//
//	[[notes]]
//	text = "good boy"
//	targets = ["zoo.Dog"]
//
// [Manifest.Build] turns a manifest into a [diagram.Model] backed by a
// [meta.Static] provider. Superclasses are taken from the extends field, so
// inheritance lines are derived at encode time and need not be listed.
// Types marked hidden can be referenced but are not drawn.
//
// # Descriptions
//
// [WriteDescription] and [ExportDescription] persist the text produced by
// [diagram.Encode]. Failures never touch the model.
//
// [diagram.Model]: github.com/matzehuels/classdiagram/pkg/diagram.Model
// [diagram.Encode]: github.com/matzehuels/classdiagram/pkg/diagram.Encode
// [meta.Static]: github.com/matzehuels/classdiagram/pkg/meta.Static
package io
