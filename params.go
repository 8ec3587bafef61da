package cohere

// Parameter structs, one per operation. The json tag of every field is its wire
// name. Optional scalars are pointers so that zero values can still be sent;
// use Int, Float and Bool to take their address inline.

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// ChatParams are the parameters of the v2 chat operation.
type ChatParams struct {
	Model            string           `json:"model"`
	Messages         []Message        `json:"messages"`
	Stream           bool             `json:"stream"`
	Tools            []map[string]any `json:"tools"`
	Documents        []any            `json:"documents"`
	CitationOptions  map[string]any   `json:"citation_options"`
	ResponseFormat   map[string]any   `json:"response_format"`
	SafetyMode       string           `json:"safety_mode"`
	MaxTokens        *int             `json:"max_tokens"`
	StopSequences    []string         `json:"stop_sequences"`
	Temperature      *float64         `json:"temperature"`
	Seed             *int             `json:"seed"`
	FrequencyPenalty *float64         `json:"frequency_penalty"`
	PresencePenalty  *float64         `json:"presence_penalty"`
	K                *int             `json:"k"`
	P                *float64         `json:"p"`
	Logprops         *bool            `json:"logprops"`
}

// EmbedParams are the parameters of the v2 embed operation.
type EmbedParams struct {
	Model          string   `json:"model"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
	Texts          []string `json:"texts"`
	Images         []string `json:"images"`
	Truncate       string   `json:"truncate"`
}

// RerankParams are the parameters of the v2 rerank operation.
// Documents may hold strings or structured objects.
type RerankParams struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []any    `json:"documents"`
	TopN            *int     `json:"top_n"`
	RankFields      []string `json:"rank_fields"`
	ReturnDocuments *bool    `json:"return_documents"`
	MaxChunksPerDoc *int     `json:"max_chunks_per_doc"`
}

// GenerateParams are the parameters of the generate operation.
// EndSequences and StopSequences are distinct wire fields.
type GenerateParams struct {
	Prompt            string             `json:"prompt"`
	Model             string             `json:"model"`
	NumGenerations    *int               `json:"num_generations"`
	MaxTokens         *int               `json:"max_tokens"`
	Preset            string             `json:"preset"`
	Temperature       *float64           `json:"temperature"`
	K                 *int               `json:"k"`
	P                 *float64           `json:"p"`
	FrequencyPenalty  *float64           `json:"frequency_penalty"`
	PresencePenalty   *float64           `json:"presence_penalty"`
	EndSequences      []string           `json:"end_sequences"`
	StopSequences     []string           `json:"stop_sequences"`
	ReturnLikelihoods string             `json:"return_likelihoods"`
	LogitBias         map[string]float64 `json:"logit_bias"`
	Truncate          string             `json:"truncate"`
	Stream            bool               `json:"stream"`
}

// ClassifyExample is a labelled text used to steer classification.
type ClassifyExample struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ClassifyParams are the parameters of the classify operation.
// A non-nil empty Examples slice is sent as an empty list.
type ClassifyParams struct {
	Model    string            `json:"model"`
	Inputs   []string          `json:"inputs"`
	Examples []ClassifyExample `json:"examples"`
	Preset   string            `json:"preset"`
	Truncate string            `json:"truncate"`
}

// TokenizeParams are the parameters of the tokenize operation.
type TokenizeParams struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// DetokenizeParams are the parameters of the detokenize operation.
type DetokenizeParams struct {
	Tokens []int  `json:"tokens"`
	Model  string `json:"model"`
}

// DetectLanguageParams are the parameters of the detect-language operation.
type DetectLanguageParams struct {
	Texts []string `json:"texts"`
}

// SummarizeParams are the parameters of the summarize operation.
type SummarizeParams struct {
	Text              string   `json:"text"`
	Length            string   `json:"length"`
	Format            string   `json:"format"`
	Model             string   `json:"model"`
	Extractiveness    string   `json:"extractiveness"`
	Temperature       *float64 `json:"temperature"`
	AdditionalCommand string   `json:"additional_command"`
}

// ChatV1Params are the parameters of the legacy v1 chat operation.
// A non-nil empty ToolResults slice is sent as an empty list.
type ChatV1Params struct {
	Message           string           `json:"message"`
	Model             string           `json:"model"`
	Stream            bool             `json:"stream"`
	Preamble          string           `json:"preamble"`
	ChatHistory       []HistoryEntry   `json:"chat_history"`
	ConversationID    string           `json:"conversation_id"`
	PromptTruncation  string           `json:"prompt_truncation"`
	Connectors        []map[string]any `json:"connectors"`
	SearchQueriesOnly *bool            `json:"search_queries_only"`
	Documents         []map[string]any `json:"documents"`
	CitationQuality   string           `json:"citation_quality"`
	Temperature       *float64         `json:"temperature"`
	MaxTokens         *int             `json:"max_tokens"`
	K                 *int             `json:"k"`
	P                 *float64         `json:"p"`
	Seed              *int             `json:"seed"`
	StopSequences     []string         `json:"stop_sequences"`
	FrequencyPenalty  *float64         `json:"frequency_penalty"`
	PresencePenalty   *float64         `json:"presence_penalty"`
	Tools             []map[string]any `json:"tools"`
	ToolResults       []map[string]any `json:"tool_results"`
	ForceSingleStep   *bool            `json:"force_single_step"`
}

// EmbedV1Params are the parameters of the legacy v1 embed operation.
type EmbedV1Params struct {
	Texts          []string `json:"texts"`
	Model          string   `json:"model"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
	Truncate       string   `json:"truncate"`
}

// RerankV1Params are the parameters of the legacy v1 rerank operation.
type RerankV1Params struct {
	Query           string   `json:"query"`
	Documents       []any    `json:"documents"`
	Model           string   `json:"model"`
	TopN            *int     `json:"top_n"`
	RankFields      []string `json:"rank_fields"`
	ReturnDocuments *bool    `json:"return_documents"`
	MaxChunksPerDoc *int     `json:"max_chunks_per_doc"`
}
