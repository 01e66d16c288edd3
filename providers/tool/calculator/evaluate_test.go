package calculator

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"123+456", 579},
		{"10-3", 7},
		{"-5", -5},
		{"(15+25)*2", 80},
		{"(15 + 25) * 2", 80},
		{" 6 * 7 ", 42},
		{"-5*3", -15},
		{"2*-3", -6},
		{"8/2", 4},
		{"1/4", 0.25},
		{"-8/2", -4},
		{"3.5+0.5", 4},
		{"42", 42},
		{"((7))", 7},
		{"1e3", 1000},
		{"1e400", math.Inf(1)},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Evaluate(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Evaluate(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	inputs := []string{
		"8/0",     // zero divisor falls through to whole-string parse
		"8/-0",    // "-" rule splits into "8/" and "0"
		"10-3-2",  // last "-" leaves "10-3" on the left
		"abc",     // not a number
		"",        // nothing left
		"()",      // nothing left after stripping
		"2*(3+4)", // flattened to 2*3+4
		"1+2+3",   // "2+3" is not a number
		"0x10",    // hexadecimal rejected
		"1_000",   // digit separators rejected
		"5/x",     // bad divisor
		"1e-5",    // last "-" splits the exponent
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := Evaluate(input)
			if !errors.Is(err, ErrEvaluation) {
				t.Errorf("Evaluate(%q) = %v, %v; want ErrEvaluation", input, got, err)
			}
		})
	}
}

func TestCalc(t *testing.T) {
	out, err := Calc(context.Background(), Input{Expression: "(15 + 25) * 2"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "(15 + 25) * 2 = 80" {
		t.Errorf("unexpected output %q", out)
	}

	out, err = Calc(context.Background(), Input{Expression: "1/4"})
	if err != nil || out != "1/4 = 0.25" {
		t.Errorf("unexpected output %q, %v", out, err)
	}

	if _, err := Calc(context.Background(), Input{Expression: "8/0"}); !errors.Is(err, ErrEvaluation) {
		t.Errorf("expected ErrEvaluation, got %v", err)
	}
}

func TestCalculatorToolCall(t *testing.T) {
	calc := NewCalculatorTool()

	info := calc.ToolInfo()
	if info.Name != "calculator" || len(info.Parameters.Required) != 1 || info.Parameters.Required[0] != "expression" {
		t.Fatalf("unexpected definition %+v", info)
	}
	if info.Parameters.Properties["expression"].Description == "" {
		t.Error("expression property should be described")
	}

	out, err := calc.Call(context.Background(), `{"expression":"123+456"}`)
	if err != nil {
		t.Fatal(err)
	}
	if out != `"123+456 = 579"` {
		t.Errorf("unexpected JSON output %s", out)
	}
}
