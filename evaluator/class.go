package evaluator

import (
	"github.com/podhmo/monkey/ast"
	"github.com/podhmo/monkey/object"
)

// evalClassLiteral evaluates the let statements of a class body into a
// fresh environment that has no outer scope.
func (e *Evaluator) evalClassLiteral(node *ast.ClassLiteral) object.Object {
	for _, stmt := range node.Body.Statements {
		if _, ok := stmt.(*ast.LetStatement); !ok {
			return newError("class body may only contain let statements")
		}
	}

	env := object.NewEnvironment()
	for _, stmt := range node.Body.Statements {
		if result := e.Eval(stmt, env); isSignal(result) {
			return result
		}
	}
	return &object.Class{Body: node.Body, Env: env}
}

func (e *Evaluator) instantiate(class *object.Class) *object.ClassInstance {
	e.logger.Debug("instantiate class", "members", len(class.Env.Names()))
	return &object.ClassInstance{Class: class, Env: class.Env.Clone()}
}

// evalMemberExpression evaluates `left.right` where left must be a class
// instance. Names on the right are resolved in the instance, while
// arguments and indexes are evaluated in env.
func (e *Evaluator) evalMemberExpression(node *ast.InfixExpression, env *object.Environment) object.Object {
	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	instance, ok := left.(*object.ClassInstance)
	if !ok {
		return newError("member access not supported: %s", left.Type())
	}
	return e.evalMember(instance, node.Right, env)
}

func (e *Evaluator) evalMember(instance *object.ClassInstance, member ast.Expression, env *object.Environment) object.Object {
	switch member := member.(type) {
	case *ast.Identifier:
		val, ok := instance.Env.Get(member.Value)
		if !ok {
			return newError("undefined field %s", member.Value)
		}
		return val
	case *ast.CallExpression:
		function := e.evalMember(instance, member.Function, env)
		if isSignal(function) {
			return function
		}
		if class, ok := function.(*object.Class); ok {
			return e.instantiate(class)
		}
		args := e.evalExpressions(member.Arguments, env)
		if len(args) == 1 && isSignal(args[0]) {
			return args[0]
		}
		return e.applyFunction(function, args, env)
	case *ast.IndexExpression:
		left := e.evalMember(instance, member.Left, env)
		if isSignal(left) {
			return left
		}
		index := e.Eval(member.Index, env)
		if isSignal(index) {
			return index
		}
		return e.evalIndexExpression(left, index)
	default:
		return newError("invalid member access: %s", member.String())
	}
}
