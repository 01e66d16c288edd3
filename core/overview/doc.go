// Package overview records the requests, responses, token usage and tool
// statistics of a single agent run. Place an [Overview] in the context with
// [Overview.ToContext] and the agent fills it in as it goes.
package overview
