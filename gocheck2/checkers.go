// Extensions to the go-check unittest framework.
//
// NOTE: see https://github.com/go-check/check/pull/6 for reasons why these
// checkers live here.
package gocheck2

import (
	"strings"

	. "gopkg.in/check.v1"
)

// -----------------------------------------------------------------------
// IsTrue / IsFalse checker.

type isBoolValueChecker struct {
	*CheckerInfo
	expected bool
}

func (checker *isBoolValueChecker) Check(
	params []interface{},
	names []string) (
	result bool,
	error string) {

	obtained, ok := params[0].(bool)
	if !ok {
		return false, "Argument to " + checker.Name + " must be bool"
	}

	return obtained == checker.expected, ""
}

// The IsTrue checker verifies that the obtained value is true.
//
// For example:
//
//     c.Assert(value, IsTrue)
//
var IsTrue Checker = &isBoolValueChecker{
	&CheckerInfo{Name: "IsTrue", Params: []string{"obtained"}},
	true,
}

// The IsFalse checker verifies that the obtained value is false.
//
// For example:
//
//     c.Assert(value, IsFalse)
//
var IsFalse Checker = &isBoolValueChecker{
	&CheckerInfo{Name: "IsFalse", Params: []string{"obtained"}},
	false,
}

// -----------------------------------------------------------------------
// BalancedParens checker.

type balancedParensChecker struct {
	*CheckerInfo
}

func (checker *balancedParensChecker) Check(
	params []interface{},
	names []string) (
	result bool,
	error string) {

	sql, ok := params[0].(string)
	if !ok {
		return false, "Argument to BalancedParens must be string"
	}

	depth := 0
	for _, r := range sql {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false, "Closing parenthesis without matching open"
			}
		}
	}
	if depth != 0 {
		return false, "Unclosed parenthesis"
	}
	return true, ""
}

// The BalancedParens checker verifies that every '(' in the obtained string
// is closed by a later ')'.  Quoted literals are not special cased.
//
// For example:
//
//     c.Assert(sql, BalancedParens)
//
var BalancedParens Checker = &balancedParensChecker{
	&CheckerInfo{Name: "BalancedParens", Params: []string{"obtained"}},
}

// -----------------------------------------------------------------------
// NormalizedSQL checker.

type normalizedSQLChecker struct {
	*CheckerInfo
}

func (checker *normalizedSQLChecker) Check(
	params []interface{},
	names []string) (
	result bool,
	error string) {

	sql, ok := params[0].(string)
	if !ok {
		return false, "Argument to NormalizedSQL must be string"
	}

	if sql != strings.TrimSpace(sql) {
		return false, "Leading or trailing whitespace"
	}
	if strings.Contains(sql, "  ") {
		return false, "Doubled space"
	}
	if strings.ContainsAny(sql, "\t\n") {
		return false, "Tab or newline separator"
	}
	return true, ""
}

// The NormalizedSQL checker verifies that the obtained statement uses single
// spaces as separators and carries no leading or trailing whitespace.
//
// For example:
//
//     c.Assert(sql, NormalizedSQL)
//
var NormalizedSQL Checker = &normalizedSQLChecker{
	&CheckerInfo{Name: "NormalizedSQL", Params: []string{"obtained"}},
}
