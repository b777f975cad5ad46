package models

const (
	// SummaryMarker starts a line that holds an existing summary.
	SummaryMarker = "TLDR:"
	SummaryWord   = "TLDR"
	HeadingPrefix = "#"

	// BlockHeader is prepended to every summary written into a document.
	BlockHeader = "###### TLDR: \n"

	NoResponseText     = "No valid response from Gemini"
	TransportErrorText = "Error querying Gemini"

	ThinkTag = `(?s)<think>.*?</think>`
)

const (
	DefaultKey      = "default"
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent?key="
	DefaultPrompt   = "Generate me a TLDR Based off of the following text. Make it one to two sentences. DO NOT INCLUDE THE WORD TLDR, ONLY PROVIDE THE TLDR: "

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultOpenAIModel = "gpt-4o-mini"
)
