package eval

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Compiled is a validated condition. The zero value (empty source) is
// always true.
type Compiled struct {
	Source  string
	Vars    []string
	program *vm.Program
}

// MissingVariablesError reports facts a condition needs but was not given.
type MissingVariablesError struct {
	Cond string
	Vars []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("cond %q is missing vars [%s]", e.Cond, strings.Join(e.Vars, ", "))
}

func Compile(cond string) (*Compiled, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return &Compiled{}, nil
	}

	vars, err := inspect(cond)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(cond)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", cond, err)
	}

	return &Compiled{Source: cond, Vars: vars, program: program}, nil
}

// MustCompile is Compile for conditions fixed at build time.
func MustCompile(cond string) *Compiled {
	c, err := Compile(cond)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Compiled) Eval(vars map[string]any) (bool, error) {
	if c == nil || c.program == nil {
		return true, nil
	}

	var missing []string
	for _, name := range c.Vars {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return false, &MissingVariablesError{Cond: c.Source, Vars: missing}
	}

	out, err := expr.Run(c.program, vars)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("cond must evaluate to bool (got %T)", out)
	}

	return b, nil
}

// Eval compiles and runs cond in one step.
func Eval(cond string, vars map[string]any) (bool, error) {
	c, err := Compile(cond)
	if err != nil {
		return false, err
	}
	return c.Eval(vars)
}
