// Package driving provides interfaces implemented by the core services
// (primary/inbound ports). Driving adapters such as the CLI depend on
// these, not on the service structs directly.
package driving
