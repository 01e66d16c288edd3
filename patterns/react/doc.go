// Package react implements the tool-calling agent loop.
//
// An [Agent] holds a preamble and a registry of tools. Each call to
// [Agent.Prompt] starts a fresh conversation from the preamble and the
// prompt, then alternates between asking the model and executing the tool
// calls it requests:
//
//	AwaitingModel -> ExecutingTools -> AwaitingModel ... -> Done | Failed
//
// All calls of one assistant turn run concurrently and their results are
// appended as a single tool turn before the next request. The loop stops
// with the first response that requests no tools, or fails with
// [ErrMaxIterationsExceeded] once the model has been answered
// MaxToolIterations times and still asks for more.
//
// Basic usage:
//
//	agent, err := react.New(provider, react.Config{
//	    Preamble: "You are a helpful assistant.",
//	    Tools:    []tool.GenericTool{calculator.NewCalculatorTool()},
//	})
//	if err != nil {
//	    return err
//	}
//	answer, err := agent.Prompt(ctx, "What is 123 + 456?")
package react
