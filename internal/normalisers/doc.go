// Package normalisers converts raw corpus content into plain text
// suitable for chunking and embedding. The support-article corpus carries
// HTML bodies, handled by the html subpackage.
package normalisers
