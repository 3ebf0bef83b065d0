package main

import (
	"fmt"

	"typesolve/database"
	"typesolve/solve"
	"typesolve/typecheck"
)

// scenarioFile is the JSON shape accepted by `solve file`: a flat list of
// named variables plus the constraints relating them. It exists so ad hoc
// scenarios go through one builder (build), rather than the CLI
// hand-assembling typecheck values for every file a user hands it; the
// built-in demos in demos.go construct their systems directly.
type scenarioFile struct {
	Variables   []string             `json:"variables"`
	Constraints []scenarioConstraint `json:"constraints"`
}

type scenarioType struct {
	Name       string         `json:"name"`
	Parameters []scenarioType `json:"parameters"`
}

type scenarioConstraint struct {
	Kind      string             `json:"kind"` // "type", "group", "default", or "overload"
	Variable  string             `json:"variable"`
	Other     string             `json:"other"`     // for kind "group"
	Type      *scenarioType      `json:"type"`       // for kind "type" or "default"
	Overloads []scenarioOverload `json:"overloads"`  // for kind "overload"
}

type scenarioOverload struct {
	Type     scenarioType         `json:"type"`
	Requires []scenarioConstraint `json:"requires"`
	Disabled bool                 `json:"disabled"`
}

// builder carries the per-file registries a scenarioFile needs while
// constructing its System: one database.Node per declared variable, and
// one definition node per distinct named type, memoized so two uses of
// "Number" in the same file unify (typecheck.NamedType's Tag comparison
// is by identity, not by name).
type builder struct {
	variables   map[string]database.Node
	definitions map[string]database.Node
}

func newBuilder() *builder {
	return &builder{
		variables:   map[string]database.Node{},
		definitions: map[string]database.Node{},
	}
}

func (b *builder) variable(name string) database.Node {
	if node, ok := b.variables[name]; ok {
		return node
	}

	node := newDemoNode(name)
	b.variables[name] = node
	return node
}

func (b *builder) buildType(t scenarioType) *typecheck.ConstructedType {
	definition, ok := b.definitions[t.Name]
	if !ok {
		definition = newDemoNode(t.Name)
		b.definitions[t.Name] = definition
	}

	if len(t.Parameters) == 0 {
		return typecheck.NamedType[typecheck.Type](definition, t.Name, nil)
	}

	parameters := make([]typecheck.Type, len(t.Parameters))
	for i, parameter := range t.Parameters {
		parameters[i] = b.buildType(parameter)
	}

	return typecheck.NamedType(definition, t.Name, parameters)
}

func (b *builder) buildConstraint(sc scenarioConstraint) (typecheck.Constraint, error) {
	switch sc.Kind {
	case "type":
		if sc.Type == nil {
			return nil, fmt.Errorf("constraint on %q: kind \"type\" requires a type", sc.Variable)
		}
		return typecheck.NewTypeConstraint(b.variable(sc.Variable), b.buildType(*sc.Type)), nil

	case "group":
		if sc.Other == "" {
			return nil, fmt.Errorf("constraint on %q: kind \"group\" requires \"other\"", sc.Variable)
		}
		return typecheck.NewGroupConstraint(b.variable(sc.Variable), b.variable(sc.Other)), nil

	case "default":
		if sc.Type == nil {
			return nil, fmt.Errorf("constraint on %q: kind \"default\" requires a type", sc.Variable)
		}
		typecheck.AddPotentialBinding(b.variable(sc.Variable), b.buildType(*sc.Type), typecheck.BindingFromLiteralDefault)
		return typecheck.NewDefaultConstraint(b.variable(sc.Variable), b.buildType(*sc.Type)), nil

	case "overload":
		if len(sc.Overloads) == 0 {
			return nil, fmt.Errorf("constraint on %q: kind \"overload\" requires at least one overload", sc.Variable)
		}

		overloads := make([]typecheck.Overload, len(sc.Overloads))
		for i, so := range sc.Overloads {
			requires := make([]typecheck.Constraint, len(so.Requires))
			for j, require := range so.Requires {
				constraint, err := b.buildConstraint(require)
				if err != nil {
					return nil, err
				}
				requires[j] = constraint
			}

			overloads[i] = typecheck.Overload{
				Type:     b.buildType(so.Type),
				Requires: requires,
				Disabled: so.Disabled,
			}
		}

		return typecheck.NewOverloadConstraint(b.variable(sc.Variable), overloads), nil

	default:
		return nil, fmt.Errorf("unknown constraint kind %q", sc.Kind)
	}
}

// build turns the parsed document into a ready-to-solve solve.System. It
// fails closed: an unrecognized constraint kind, or a missing type, other
// or overloads field for the kinds that use them, is an error rather than
// a silently skipped constraint.
func (doc scenarioFile) build() (*solve.System, error) {
	b := newBuilder()

	for _, name := range doc.Variables {
		b.variable(name)
	}

	constraints := make([]typecheck.Constraint, 0, len(doc.Constraints))
	for _, sc := range doc.Constraints {
		constraint, err := b.buildConstraint(sc)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, constraint)
	}

	typeVariables := make([]*typecheck.TypeVariable, 0, len(b.variables))
	for _, name := range doc.Variables {
		typeVariables = append(typeVariables, typecheck.NewTypeVariable(b.variables[name]))
	}

	return solve.NewSystem(newSolver(), constraints, typeVariables), nil
}
