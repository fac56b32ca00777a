package embedding

import "strings"

// BERT special token ids used by MiniLM-family models.
const (
	clsTokenID = 101
	sepTokenID = 102

	// hashVocabSize bounds hashed token ids to a plausible vocabulary range.
	hashVocabSize = 30000
)

// Tokenizer produces the three BERT-style model inputs: input_ids,
// attention_mask, and token_type_ids.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// SimpleTokenizer hashes whitespace-split words into token ids. It is not the
// model's real vocabulary; it lets the ONNX path run without shipping a
// tokenizer file, trading embedding quality for zero configuration. Support
// queries are short, so truncation at maxTokens rarely triggers.
type SimpleTokenizer struct{}

// Tokenize produces [CLS] word-ids... [SEP] padded out to maxTokens.
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	words := SplitWords(text)
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	pos := 1
	for _, word := range words {
		if pos >= maxTokens-1 {
			break
		}
		inputIDs[pos] = int64(HashString(word) % hashVocabSize)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = sepTokenID
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// SplitWords splits text on whitespace, dropping empty fields.
func SplitWords(text string) []string {
	return strings.Fields(text)
}

// HashString returns a deterministic non-negative hash, shared by the simple
// tokenizer and the mock embedder so both stay stable across runs.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return h
}
