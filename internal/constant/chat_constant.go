package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	ChatModeDoc    = "doc"
	ChatModeData   = "data"
	ChatModeWeb    = "web"
	ChatModeSimple = "simple"

	// ChatDocScopeAll selects the whole document index instead of a single department.
	ChatDocScopeAll = "all"

	// History window for prompt inclusion. Fixed policy, not runtime-configurable.
	HistoryWindowSize = 30

	// Document-grounded retrieval cap.
	DocumentSearchLimit = 10

	// Web-grounded retrieval: result count and extraction caps (in runes).
	WebSearchTopN       = 5
	WebPageContentLimit = 2000
	WebPageExcerptLimit = 500

	// Requested tier name that maps to the fast model when tier selection is allowed.
	ModelTierFast = "GPT-3"

	// Upper bound on generated completion length, in tokens.
	CompletionMaxTokens = 2000

	DefaultThreadTitle = "Unnamed thread"
	ThreadTitleLimit   = 30
)

// SystemPersonaPromptTemplate is the base persona. %s is the assistant display name.
const SystemPersonaPromptTemplate = "あなたは %s です。ユーザーからの質問に対して日本語で丁寧に回答します。\n"

// WebPersonaPromptTemplate instructs the model to ground answers in web search results.
const WebPersonaPromptTemplate = `あなたは %s です。ユーザーからの質問に対して日本語で丁寧に回答します。
- 質問には正直かつ正確に答えます。
- Web検索結果を参考にしつつ、信頼性の高い情報を提供します。
- 情報の出典を適切に示します。`

// SimplePersonaPromptTemplate is the conversational persona without retrieval.
const SimplePersonaPromptTemplate = `あなたは %s です。ユーザーからの質問に対して日本語で丁寧に回答します。
- 質問には正直かつ正確に答えます。
- 情報を分かりやすく説明します。
- 必要に応じて簡潔で的確な回答を心がけます。`

// WebAnswerDirective closes the web-grounded prompt after the search result block.
const WebAnswerDirective = "上記の検索結果を踏まえて、元の質問に対して包括的かつ情報豊富な回答を2000文字程度で生成してください。"

// DocAnswerRules opens the grounded user turn in document mode.
const DocAnswerRules = `以下の参考文書の抜粋に基づいて、最終的な回答を作成してください。
- 参考文書から答えが分からない場合は、分からないと答えてください。推測で回答しないでください。
- 回答の最後には必ず引用を含めてください。`

// ThreadTitlePrompt asks the model to name a conversation from its opening
// exchange. %s is the opening user message.
const ThreadTitlePrompt = "以下の質問に30文字以内の短いタイトルを日本語で付けてください。タイトルのみを出力してください。\n\n%s"

// DocCitationDirectivePrefix precedes the rendered citation marker. The
// marker that follows enumerates the supplied documents in retrieval order
// and contains literal percent signs, so neither string may pass through a
// format-string function.
const DocCitationDirectivePrefix = "引用は必ず次の形式をそのまま使用してください: "
