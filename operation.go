package cohere

import (
	"slices"
	"strings"
)

// Operation names.
const (
	OpChat           = "chat"
	OpEmbed          = "embed"
	OpRerank         = "rerank"
	OpGenerate       = "generate"
	OpClassify       = "classify"
	OpTokenize       = "tokenize"
	OpDetokenize     = "detokenize"
	OpDetectLanguage = "detect_language"
	OpSummarize      = "summarize"
	OpChatV1         = "chat.v1"
	OpEmbedV1        = "embed.v1"
	OpRerankV1       = "rerank.v1"
)

// Rule decides whether a supplied optional value is sent.
type Rule int

const (
	// RuleNonEmpty omits nil pointers, empty strings and nil or empty collections.
	RuleNonEmpty Rule = iota
	// RuleSupplied omits only nil values. Empty collections are sent.
	RuleSupplied
	// RuleTrue sends a boolean flag only when it is true.
	RuleTrue
)

// String returns the rule name.
func (r Rule) String() string {
	switch r {
	case RuleNonEmpty:
		return "non-empty"
	case RuleSupplied:
		return "supplied"
	case RuleTrue:
		return "true"
	default:
		return "unknown"
	}
}

// Field is one entry of an operation's field table.
type Field struct {
	Wire     string
	Required bool
	Rule     Rule
}

// Operation describes a remote capability reachable with a POST request.
type Operation struct {
	Name      string
	Path      string
	Version   APIVersion
	Streaming bool
	Fields    []Field
}

// Method is always POST.
func (Operation) Method() string {
	return "POST"
}

// Field returns the table entry for a wire name.
func (o Operation) Field(wire string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Wire == wire {
			return f, true
		}
	}
	return Field{}, false
}

func required(wire string) Field { return Field{Wire: wire, Required: true} }
func optional(wire string) Field { return Field{Wire: wire} }
func supplied(wire string) Field { return Field{Wire: wire, Rule: RuleSupplied} }
func flag(wire string) Field     { return Field{Wire: wire, Rule: RuleTrue} }

// Each version keeps its own field tables. Overlapping concepts are not merged.
var operations = map[string]Operation{
	// v2
	OpChat: {
		Name: OpChat, Path: "chat", Version: V2, Streaming: true,
		Fields: []Field{
			required("model"),
			required("messages"),
			flag("stream"),
			optional("tools"),
			optional("documents"),
			optional("citation_options"),
			optional("response_format"),
			optional("safety_mode"),
			optional("max_tokens"),
			optional("stop_sequences"),
			optional("temperature"),
			optional("seed"),
			optional("frequency_penalty"),
			optional("presence_penalty"),
			optional("k"),
			optional("p"),
			optional("logprops"),
		},
	},
	OpEmbed: {
		Name: OpEmbed, Path: "embed", Version: V2,
		Fields: []Field{
			required("model"),
			required("input_type"),
			required("embedding_types"),
			optional("texts"),
			optional("images"),
			optional("truncate"),
		},
	},
	OpRerank: {
		Name: OpRerank, Path: "rerank", Version: V2,
		Fields: []Field{
			required("model"),
			required("query"),
			required("documents"),
			optional("top_n"),
			optional("rank_fields"),
			optional("return_documents"),
			optional("max_chunks_per_doc"),
		},
	},

	// v1
	OpGenerate: {
		Name: OpGenerate, Path: "generate", Version: V1, Streaming: true,
		Fields: []Field{
			required("prompt"),
			optional("model"),
			optional("num_generations"),
			optional("max_tokens"),
			optional("preset"),
			optional("temperature"),
			optional("k"),
			optional("p"),
			optional("frequency_penalty"),
			optional("presence_penalty"),
			optional("end_sequences"),
			optional("stop_sequences"),
			optional("return_likelihoods"),
			optional("logit_bias"),
			optional("truncate"),
			flag("stream"),
		},
	},
	OpClassify: {
		Name: OpClassify, Path: "classify", Version: V1,
		Fields: []Field{
			required("model"),
			required("inputs"),
			supplied("examples"),
			optional("preset"),
			optional("truncate"),
		},
	},
	OpTokenize: {
		Name: OpTokenize, Path: "tokenize", Version: V1,
		Fields: []Field{
			required("text"),
			required("model"),
		},
	},
	OpDetokenize: {
		Name: OpDetokenize, Path: "detokenize", Version: V1,
		Fields: []Field{
			required("tokens"),
			required("model"),
		},
	},
	OpDetectLanguage: {
		Name: OpDetectLanguage, Path: "detect-language", Version: V1,
		Fields: []Field{
			required("texts"),
		},
	},
	OpSummarize: {
		Name: OpSummarize, Path: "summarize", Version: V1,
		Fields: []Field{
			required("text"),
			optional("length"),
			optional("format"),
			optional("model"),
			optional("extractiveness"),
			optional("temperature"),
			optional("additional_command"),
		},
	},
	OpChatV1: {
		Name: OpChatV1, Path: "chat", Version: V1, Streaming: true,
		Fields: []Field{
			required("message"),
			optional("model"),
			flag("stream"),
			optional("preamble"),
			optional("chat_history"),
			optional("conversation_id"),
			optional("prompt_truncation"),
			optional("connectors"),
			optional("search_queries_only"),
			optional("documents"),
			optional("citation_quality"),
			optional("temperature"),
			optional("max_tokens"),
			optional("k"),
			optional("p"),
			optional("seed"),
			optional("stop_sequences"),
			optional("frequency_penalty"),
			optional("presence_penalty"),
			optional("tools"),
			supplied("tool_results"),
			optional("force_single_step"),
		},
	},
	OpEmbedV1: {
		Name: OpEmbedV1, Path: "embed", Version: V1,
		Fields: []Field{
			required("texts"),
			optional("model"),
			optional("input_type"),
			optional("embedding_types"),
			optional("truncate"),
		},
	},
	OpRerankV1: {
		Name: OpRerankV1, Path: "rerank", Version: V1,
		Fields: []Field{
			required("query"),
			required("documents"),
			optional("model"),
			optional("top_n"),
			optional("rank_fields"),
			optional("return_documents"),
			optional("max_chunks_per_doc"),
		},
	},
}

// LookupOperation returns the operation registered under name.
func LookupOperation(name string) (Operation, bool) {
	op, ok := operations[name]
	return op, ok
}

// Operations returns every registered operation sorted by name.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operations))
	for _, op := range operations {
		ops = append(ops, op)
	}
	slices.SortFunc(ops, func(a, b Operation) int {
		return strings.Compare(a.Name, b.Name)
	})
	return ops
}
