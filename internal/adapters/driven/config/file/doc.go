// Package file loads ragdoc configuration from a TOML file, with secrets
// taken from the environment (optionally seeded from a .env.local file).
// The configuration is built once at startup and passed into components;
// nothing reads it from package state.
package file
