// Package middleware wraps an ai.Provider with a chain of interceptors for
// both SendMessage and StreamMessage.
//
//	provider, err := middleware.Wrap(base,
//	    middleware.NewTimeout(60*time.Second),
//	    middleware.NewLogging(observer, middleware.DetailStandard),
//	)
//
// Entries run outermost-first: a request passes Timeout, then Logging, then
// reaches the provider, and the response travels back in reverse.
//
// Provider errors pass through unchanged. Retries are configured on the SDK
// client, see deepseek.Config.MaxRetries.
package middleware
