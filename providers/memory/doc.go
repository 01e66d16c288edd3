// Package memory defines the conversation store used by the agent loop.
// Read methods return errors so that stores backed by external systems can
// report failures; the in-process implementation lives in the inmemory
// subpackage.
package memory
