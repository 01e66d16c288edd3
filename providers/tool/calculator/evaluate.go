package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrEvaluation is returned for any expression Evaluate cannot compute.
var ErrEvaluation = errors.New("calculator: evaluation error")

// Evaluate computes a single two-operand expression.
//
// This is not a precedence parser. Whitespace and parentheses are dropped
// first, then the first matching rule applies:
//
//  1. "*": split at the first "*"; if the left side holds a "+", the
//     result is (a+b)*right, otherwise left*right.
//  2. "+": split at the first "+" and add.
//  3. "-" after position 0: split at the last "-" and subtract. A leading
//     "-" is a sign.
//  4. "/": split at the first "/" and divide. A zero divisor skips to rule 5
//     with the whole expression, which then normally fails.
//  5. Parse the whole expression as one number.
//
// So "(15+25)*2" is 80, while "2*(3+4)" flattens to "2*3+4" and fails
// because "3+4" is not a number. Any malformed numeral yields ErrEvaluation.
func Evaluate(expression string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '(' || r == ')' {
			return -1
		}
		return r
	}, expression)

	if left, right, ok := strings.Cut(cleaned, "*"); ok {
		factor, err := parseOperand(right)
		if err != nil {
			return 0, err
		}
		if a, b, ok := strings.Cut(left, "+"); ok {
			x, err := parseOperand(a)
			if err != nil {
				return 0, err
			}
			y, err := parseOperand(b)
			if err != nil {
				return 0, err
			}
			return (x + y) * factor, nil
		}
		x, err := parseOperand(left)
		if err != nil {
			return 0, err
		}
		return x * factor, nil
	}

	if left, right, ok := strings.Cut(cleaned, "+"); ok {
		return binary(left, right, func(x, y float64) float64 { return x + y })
	}

	if i := strings.LastIndex(cleaned, "-"); i > 0 {
		return binary(cleaned[:i], cleaned[i+1:], func(x, y float64) float64 { return x - y })
	}

	if left, right, ok := strings.Cut(cleaned, "/"); ok {
		x, err := parseOperand(left)
		if err != nil {
			return 0, err
		}
		y, err := parseOperand(right)
		if err != nil {
			return 0, err
		}
		if y != 0 {
			return x / y, nil
		}
	}

	return parseOperand(cleaned)
}

func binary(left, right string, op func(x, y float64) float64) (float64, error) {
	x, err := parseOperand(left)
	if err != nil {
		return 0, err
	}
	y, err := parseOperand(right)
	if err != nil {
		return 0, err
	}
	return op(x, y), nil
}

// parseOperand reads a decimal float. Out-of-range values become ±Inf;
// hexadecimal and underscore-separated forms are rejected.
func parseOperand(s string) (float64, error) {
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, fmt.Errorf("%w: invalid number %q", ErrEvaluation, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: invalid number %q", ErrEvaluation, s)
	}
	return v, nil
}
