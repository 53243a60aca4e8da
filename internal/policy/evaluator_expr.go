package policy

import "github.com/awmpietro/under5-screening/internal/policy/eval"

type ExprEvaluator struct{}

func (ExprEvaluator) Eval(cond string, vars map[string]any) (bool, error) {
	return eval.Eval(cond, vars)
}

func (ExprEvaluator) EvalCompiled(compiled *eval.Compiled, vars map[string]any) (bool, error) {
	return compiled.Eval(vars)
}
