// Package domain contains the core entities of the ragdoc pipeline:
// documents, chunks, stored records, retrieval results and evaluation
// verdicts. It has no dependencies on adapters or external services.
package domain
