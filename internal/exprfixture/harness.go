package exprfixture

import "testing"

// Case is one golden expression/expected-result pair fed through an
// Evaluator by RunGoldenCases.
type Case struct {
	Name    string
	Expr    string
	Env     map[string]interface{}
	Want    interface{}
	WantErr bool
}

// RunGoldenCases feeds every case in cases through eval as a subtest,
// asserting the expected result or error.
func RunGoldenCases(t *testing.T, eval Evaluator, cases []Case) {
	t.Helper()
	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			got, recognized, err := eval.Evaluate(c.Expr, c.Env)
			if c.WantErr {
				if err == nil {
					t.Fatalf("expected an error evaluating %q, got none", c.Expr)
				}
				return
			}
			if err != nil {
				t.Fatalf("evaluating %q: %v", c.Expr, err)
			}
			if !recognized {
				t.Fatalf("expression %q was not recognized", c.Expr)
			}
			if got != c.Want {
				t.Fatalf("evaluating %q: want %v, got %v", c.Expr, c.Want, got)
			}
		})
	}
}
