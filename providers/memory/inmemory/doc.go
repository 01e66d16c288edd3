// Package inmemory provides [ArrayMemory], the process-local conversation
// store the agent creates for every prompt.
package inmemory
