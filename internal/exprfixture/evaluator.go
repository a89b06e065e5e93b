// Package exprfixture provides a table-driven golden-case test harness for
// pluggable expression evaluators. It intentionally implements no real
// expression language: it exists to exercise whatever Evaluator a caller
// supplies against a table of expression strings and expected results.
package exprfixture

// Evaluator evaluates a single expression string against an environment of
// named values, returning the result, whether the expression was
// recognized at all, and any evaluation error.
type Evaluator interface {
	Evaluate(expr string, env map[string]interface{}) (result interface{}, recognized bool, err error)
}
