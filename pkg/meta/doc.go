// Package meta describes the type metadata a class diagram is built from.
//
// # Overview
//
// The diagram core never inspects types itself. It asks a [Provider] for the
// qualified name, superclass, attributes and behaviors of an opaque [Handle].
// Any introspection mechanism can back a provider:
//
//   - [Static]: hand-written descriptors (used by manifests in pkg/io)
//   - pkg/meta/source: classes parsed from Python or TypeScript sources
//
// # Ordering
//
// Attributes and behaviors are returned in declaration order. Callers must not
// re-sort them; the encoder relies on this order for reproducible output.
//
// # Superclasses
//
// [Provider.Superclass] reports ok=false for a type without a superclass.
// Providers that cannot resolve a superclass may return [ErrNoSuperclass],
// which consumers treat the same way. Providers that know a universal root
// type (such as Python's "object") expose it through [Rooted].
package meta
