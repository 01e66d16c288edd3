// Package deepseek is an ai.Provider for the DeepSeek chat completions API,
// built on the official OpenAI Go SDK since DeepSeek speaks the same wire
// format.
//
// Both deepseek-chat and deepseek-reasoner are supported. The reasoner's
// reasoning_content is surfaced as ai.ChatResponse.Reasoning, and as
// reasoning events when streaming.
//
//	provider, err := deepseek.NewDeepSeekProvider(deepseek.Config{
//	    APIKey: os.Getenv("DEEPSEEK_API_KEY"),
//	})
package deepseek
