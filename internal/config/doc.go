// Package config loads the toolagent profile.
//
// Values are layered: [Default], then an optional YAML file decoded with
// unknown keys rejected, then environment overrides. A .env file can be
// loaded first with [LoadDotEnv]. Secrets stay in the environment; the
// profile only names the variable that holds the API key.
//
// Example profile:
//
//	provider:
//	  base_url: https://api.deepseek.com
//	  api_key_env: DEEPSEEK_API_KEY
//	  model: deepseek-chat
//	agent:
//	  preamble: You are a helpful assistant.
//	  max_tool_iterations: 5
//	  tools: [calculator, get_weather]
//	log:
//	  level: info
//	  format: text
//	observability:
//	  backend: slog
package config
