// Package calculator provides a tool that evaluates simple two-operand
// arithmetic expressions such as "123 + 456" or "(15 + 25) * 2".
//
// [Evaluate] implements a deliberately narrow grammar with a fixed rule
// order instead of operator precedence; existing prompts depend on its exact
// results, so it must not be turned into a general parser.
package calculator
