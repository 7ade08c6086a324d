package domain

import (
	"math"
	"strings"
)

// RefusalAnswer is the fixed answer the model must give when the retrieved
// context does not support an answer.
const RefusalAnswer = "The answer cannot be verified from provided sources."

// Placeholders of the grounded-answer prompt. Each appears exactly once.
const (
	PromptContext  = "{context}"
	PromptQuestion = "{question}"
)

// GroundedPromptTemplate is the built-in grounded-answer prompt.
const GroundedPromptTemplate = `You are a strictly factual assistant. Use ONLY the provided context to answer the question.

Rules:
- If the answer cannot be verified from the provided context, you MUST say: "` + RefusalAnswer + `"
- Do not fabricate information.
- Keep the answer clear and concise.

Context:
{context}

Question:
{question}

Answer:`

// RenderGroundedPrompt fills template in one pass: placeholder text inside the
// context or the question is left as is, and other characters such as % are
// copied verbatim.
func RenderGroundedPrompt(template, context, question string) string {
	return strings.NewReplacer(PromptContext, context, PromptQuestion, question).Replace(template)
}

// RetrievalHit pairs a chunk with its distance to the query.
//
// Distance is the squared Euclidean distance between the query and chunk
// embeddings: LOWER IS MORE SIMILAR. It is not a cosine similarity, and
// values are only comparable within results from the same index.
type RetrievalHit struct {
	Chunk    Chunk
	Distance float64
}

// AnswerSource is one retrieved chunk as reported alongside an answer.
type AnswerSource struct {
	Content  string            `json:"content" yaml:"content"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`

	// Score is the raw search distance. Lower is more similar.
	Score float64 `json:"score" yaml:"score"`
}

// AnswerPacket is the result of one grounded query.
type AnswerPacket struct {
	Answer  string         `json:"answer" yaml:"answer"`
	Sources []AnswerSource `json:"sources" yaml:"sources"`
}

// IsRefusal reports whether the model declined to answer for lack of evidence.
// A refusal is a designed outcome, not an error.
func (p AnswerPacket) IsRefusal() bool {
	return strings.TrimSpace(p.Answer) == RefusalAnswer
}

// IngestStats summarises one ingestion batch.
type IngestStats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`

	// AvgChunkLen is the mean chunk length in characters, rounded to 2 decimals.
	AvgChunkLen float64 `json:"avg_chunk_len"`
}

// ComputeIngestStats derives batch statistics from the documents and chunks.
func ComputeIngestStats(docs []Document, chunks []Chunk) IngestStats {
	stats := IngestStats{Documents: len(docs), Chunks: len(chunks)}
	if len(chunks) == 0 {
		return stats
	}
	total := 0
	for i := range chunks {
		total += len([]rune(chunks[i].Content))
	}
	avg := float64(total) / float64(len(chunks))
	stats.AvgChunkLen = math.Round(avg*100) / 100
	return stats
}

// SourcePreviewLen is how many characters of a source are shown to the user.
const SourcePreviewLen = 300

// Preview returns the first SourcePreviewLen characters of the content,
// followed by "..." when it was cut.
func (s AnswerSource) Preview() string {
	runes := []rune(s.Content)
	if len(runes) <= SourcePreviewLen {
		return s.Content
	}
	return string(runes[:SourcePreviewLen]) + "..."
}
