// Package services contains the application core: the ingestion batcher,
// the retriever, the answer synthesizer and the evaluator. Services
// orchestrate domain entities through the driven ports and hold no
// knowledge of concrete adapters.
package services
