package domain

// AnswerSource tags how an answer was produced so downstream surfaces
// can render appropriate trust signals.
type AnswerSource string

// Answer sources.
const (
	// AnswerSourceDocuments means the answer is grounded in retrieved chunks.
	AnswerSourceDocuments AnswerSource = "documents"

	// AnswerSourceTable means the answer came deterministically from a
	// performance table lookup, without retrieval.
	AnswerSourceTable AnswerSource = "performance_table"

	// AnswerSourceFallback means retrieval found nothing and the answer
	// is general-knowledge generation, not grounded in documents.
	AnswerSourceFallback AnswerSource = "general_fallback"

	// AnswerSourceRAGError means documents were found but generation
	// failed; the response is degraded but carries the document count.
	AnswerSourceRAGError AnswerSource = "rag_error"
)

// Citation points a reader at the document a snippet came from.
type Citation struct {
	// Source is the document path.
	Source string

	// Page is the 1-based page, zero when unknown.
	Page int

	// ChunkType of the cited chunk.
	ChunkType ChunkType
}

// AnswerContext carries explicit facts the caller already knows about
// the question. Explicit fields override text-based inference.
type AnswerContext struct {
	// Species is the known production category, empty to infer.
	Species Species

	// Breed is the known commercial line, empty if unknown.
	Breed string

	// Sex, Unit and AgeDays enable the deterministic table short-circuit
	// for structured performance questions. AgeDays < 0 means unknown.
	Sex     Sex
	Unit    Unit
	AgeDays int
}

// AnswerResult is the always-well-formed envelope the answer pipeline
// returns. Every failure mode maps onto a readable response plus a
// Source/Warning pair; the pipeline never surfaces a raw error to the
// end user under normal operating conditions.
type AnswerResult struct {
	// Response is the user-visible answer text.
	Response string

	// Source tags how the answer was produced.
	Source AnswerSource

	// DocumentsUsed is the number of retrieved chunks that grounded
	// the answer.
	DocumentsUsed int

	// Warning is a user-visible caveat, empty when none applies.
	Warning string

	// Citations list the documents the answer is grounded in.
	Citations []Citation
}
