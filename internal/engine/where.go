package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rshade/ecosort/internal/catalog"
)

// CEL variables exposed to --where expressions.
const (
	VarIndustry       = "industry"
	VarMaterialType   = "material_type"
	VarWeightKg       = "weight_kg"
	VarEmissionFactor = "emission_factor_per_kg"
	VarTransportMode  = "transport_mode"
)

var (
	whereEnv     *cel.Env
	whereEnvErr  error
	whereEnvOnce sync.Once
)

// getWhereEnv returns the shared CEL environment. cel.Env is safe for
// concurrent use once built.
func getWhereEnv() (*cel.Env, error) {
	whereEnvOnce.Do(func() {
		whereEnv, whereEnvErr = cel.NewEnv(
			cel.Variable(VarIndustry, cel.StringType),
			cel.Variable(VarMaterialType, cel.StringType),
			cel.Variable(VarWeightKg, cel.DoubleType),
			cel.Variable(VarEmissionFactor, cel.DoubleType),
			cel.Variable(VarTransportMode, cel.StringType),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return whereEnv, whereEnvErr
}

// Predicate is a compiled where expression.
type Predicate struct {
	expr string
	prg  cel.Program
}

// CompileWhere compiles expr into a Predicate. A blank expression returns
// a nil Predicate, which matches everything.
//
// Compile errors and non-boolean expressions are reported as
// catalog.InvalidInputError.
func CompileWhere(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil //nolint:nilnil // nil predicate matches all products.
	}

	env, err := getWhereEnv()
	if err != nil {
		return nil, fmt.Errorf("building where environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, catalog.NewInvalidInput("where", expr, issues.Err().Error())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, catalog.NewInvalidInput("where", expr,
			"expression must evaluate to bool, got "+ast.OutputType().String())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, catalog.NewInvalidInput("where", expr, err.Error())
	}

	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Match evaluates the predicate against p. A nil Predicate matches.
func (p *Predicate) Match(prod catalog.Product) (bool, error) {
	if p == nil {
		return true, nil
	}

	mode, _ := prod.Mode()
	out, _, err := p.prg.Eval(map[string]any{
		VarIndustry:       prod.Industry,
		VarMaterialType:   prod.MaterialType,
		VarWeightKg:       prod.WeightKg,
		VarEmissionFactor: prod.EmissionFactorPerKg,
		VarTransportMode:  mode.String(),
	})
	if err != nil {
		return false, catalog.NewInvalidInput("where", p.expr, err.Error())
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, catalog.NewInvalidInput("where", p.expr,
			fmt.Sprintf("expression returned %T, want bool", out.Value()))
	}
	return matched, nil
}
