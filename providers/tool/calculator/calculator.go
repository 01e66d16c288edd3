package calculator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/leofalp/toolagent/providers/tool"
)

// Name is the tool name advertised to the model.
const Name = "calculator"

// Input is the calculator's argument object.
type Input struct {
	Expression string `json:"expression" jsonschema:"description=The arithmetic expression to evaluate such as (15 + 25) * 2"`
}

// NewCalculatorTool returns the calculator tool. Its output is the text
// "<expression> = <result>".
func NewCalculatorTool() *tool.Tool[Input, string] {
	return tool.NewTool(
		Name,
		Calc,
		tool.WithDescription("Performs arithmetic. Supports addition, subtraction, multiplication and division of two numbers."),
	)
}

// Calc evaluates req.Expression with Evaluate.
//
//	out, _ := Calc(ctx, Input{Expression: "123+456"}) // "123+456 = 579"
func Calc(_ context.Context, req Input) (string, error) {
	result, err := Evaluate(req.Expression)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", req.Expression, strconv.FormatFloat(result, 'f', -1, 64)), nil
}
