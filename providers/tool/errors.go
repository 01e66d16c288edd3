package tool

import "errors"

var (
	// ErrDuplicateToolName is returned by Register when the name is taken.
	ErrDuplicateToolName = errors.New("tool: duplicate tool name")

	// ErrUnknownTool marks a call naming a tool that is not registered.
	ErrUnknownTool = errors.New("tool: unknown tool")

	// ErrArgumentParse marks call arguments that do not fit the tool's
	// argument type.
	ErrArgumentParse = errors.New("tool: argument parse error")
)
