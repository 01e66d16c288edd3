// Package patterns holds agent strategies built on providers/ai. The
// tool-calling agent lives in the react subpackage.
package patterns
