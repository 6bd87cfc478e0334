package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/podhmo/monkey/ast"
	"github.com/podhmo/monkey/object"
)

// Evaluator walks a syntax tree and computes its value. It embeds the
// context handed to builtins, so builtins see the configured I/O streams.
type Evaluator struct {
	object.BuiltinContext
	logger *slog.Logger
}

// Config holds the settings of an Evaluator. Nil streams fall back to the
// process streams; a nil Logger discards everything.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func New(cfg Config) *Evaluator {
	e := &Evaluator{logger: cfg.Logger}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.BuiltinContext = object.BuiltinContext{
		Stdin:  cfg.Stdin,
		Stdout: cfg.Stdout,
		Stderr: cfg.Stderr,
		NewError: func(format string, v ...any) *object.Error {
			return newError(format, v...)
		},
	}
	if e.Stdin == nil {
		e.Stdin = os.Stdin
	}
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	return e
}

// Eval evaluates node in env. Statements that bind names (let and
// assignment) produce nil; everything else produces a value or a signal
// (return, break, continue, error, exit).
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, object.NewEnclosedEnvironment(env))
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.LetStatement:
		val := e.Eval(node.Value, env)
		if isSignal(val) {
			return val
		}
		env.Set(node.Name.Value, val, true)
		return nil
	case *ast.AssignStatement:
		val := e.Eval(node.Value, env)
		if isSignal(val) {
			return val
		}
		if _, ok := env.Set(node.Name.Value, val, false); !ok {
			return newError("can't assign value before declaration")
		}
		return nil
	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return &object.ReturnValue{Value: &object.Integer{Value: 0}}
		}
		val := e.Eval(node.ReturnValue, env)
		if isSignal(val) {
			return val
		}
		return &object.ReturnValue{Value: val}
	case *ast.BreakStatement:
		if !env.InLoop() {
			return newError("can't use break outside a loop")
		}
		return object.BREAK
	case *ast.ContinueStatement:
		if !env.InLoop() {
			return newError("can't use continue outside a loop")
		}
		return object.CONTINUE

	// Expressions
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}
	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isSignal(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)
	case *ast.InfixExpression:
		if node.Operator == "." {
			return e.evalMemberExpression(node, env)
		}
		// the right operand is evaluated first
		right := e.Eval(node.Right, env)
		if isSignal(right) {
			return right
		}
		left := e.Eval(node.Left, env)
		if isSignal(left) {
			return left
		}
		return e.evalInfixExpression(node.Operator, left, right)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.WhileExpression:
		return e.evalWhileExpression(node, env)
	case *ast.ForExpression:
		return e.evalForExpression(node, env)
	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Body: node.Body, Env: env}
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements, env)
		if len(elements) == 1 && isSignal(elements[0]) {
			return elements[0]
		}
		return &object.Array{Elements: elements}
	case *ast.IndexExpression:
		left := e.Eval(node.Left, env)
		if isSignal(left) {
			return left
		}
		index := e.Eval(node.Index, env)
		if isSignal(index) {
			return index
		}
		return e.evalIndexExpression(left, index)
	case *ast.HashLiteral:
		return e.evalHashLiteral(node, env)
	case *ast.ClassLiteral:
		return e.evalClassLiteral(node)
	}
	return nil
}

func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object
	for _, statement := range program.Statements {
		result = e.Eval(statement, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error, *object.Exit:
			return result
		}
	}
	return result
}

// evalBlockStatement runs the statements of block in env and stops at the
// first signal, handing it to the caller unchanged.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object = object.NULL
	for _, statement := range block.Statements {
		result = e.Eval(statement, env)
		if result == nil {
			result = object.NULL
			continue
		}
		if isSignal(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := builtins[node.Value]; ok {
		return builtin
	}
	return newError("identifier not found: %s", node.Value)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) []object.Object {
	result := make([]object.Object, 0, len(exps))
	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isSignal(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}
	return result
}

// --- Control flow ---

func (e *Evaluator) evalIfExpression(ie *ast.IfExpression, env *object.Environment) object.Object {
	scope := object.NewEnclosedEnvironment(env)
	condition := e.Eval(ie.Condition, scope)
	if isSignal(condition) {
		return condition
	}

	switch {
	case isTruthy(condition):
		return e.evalBlockStatement(ie.Consequence, scope)
	case ie.Alternative != nil:
		return e.evalBlockStatement(ie.Alternative, scope)
	default:
		return object.NULL
	}
}

// evalWhileExpression checks the condition in env and runs every iteration
// of the body in one shared loop scope.
func (e *Evaluator) evalWhileExpression(we *ast.WhileExpression, env *object.Environment) object.Object {
	scope := object.NewLoopEnvironment(env)
	var result object.Object = object.NULL
	for {
		condition := e.Eval(we.Condition, env)
		if isSignal(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return result
		}

		evaluated := e.evalBlockStatement(we.Body, scope)
		switch evaluated.(type) {
		case *object.Break:
			return object.NULL
		case *object.Continue:
			result = object.NULL
			continue
		case *object.Error, *object.Exit, *object.ReturnValue:
			return evaluated
		}
		result = evaluated
	}
}

// evalForExpression runs init, condition, body and update in one loop scope.
// The update also runs after a continue.
func (e *Evaluator) evalForExpression(fe *ast.ForExpression, env *object.Environment) object.Object {
	scope := object.NewLoopEnvironment(env)
	if fe.Init != nil {
		if initialized := e.Eval(fe.Init, scope); isSignal(initialized) {
			return initialized
		}
	}

	var result object.Object = object.NULL
	for {
		if fe.Condition != nil {
			condition := e.Eval(fe.Condition, scope)
			if isSignal(condition) {
				return condition
			}
			if !isTruthy(condition) {
				return result
			}
		}

		evaluated := e.evalBlockStatement(fe.Body, scope)
		switch evaluated.(type) {
		case *object.Break:
			return object.NULL
		case *object.Error, *object.Exit, *object.ReturnValue:
			return evaluated
		case *object.Continue:
			evaluated = object.NULL
		}
		result = evaluated

		if fe.Update != nil {
			if update := e.Eval(fe.Update, scope); isSignal(update) {
				return update
			}
		}
	}
}

// --- Calls ---

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *object.Environment) object.Object {
	function := e.Eval(node.Function, env)
	if isSignal(function) {
		return function
	}
	if class, ok := function.(*object.Class); ok {
		return e.instantiate(class)
	}

	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isSignal(args[0]) {
		return args[0]
	}
	return e.applyFunction(function, args, env)
}

// applyFunction calls fn. A user function runs in a child of the
// environment it was defined in; the child takes the loop flag of caller.
func (e *Evaluator) applyFunction(fn object.Object, args []object.Object, caller *object.Environment) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return newError("wrong number of arguments: want=%d, got=%d", len(fn.Parameters), len(args))
		}
		e.logger.Debug("call", "arity", len(args))
		extendedEnv := extendFunctionEnv(fn, args, caller)
		evaluated := e.evalBlockStatement(fn.Body, extendedEnv)
		return unwrapReturnValue(evaluated)
	case *object.Builtin:
		return fn.Fn(&e.BuiltinContext, args...)
	default:
		return newError("not a function: %s", fn.Type())
	}
}

func extendFunctionEnv(fn *object.Function, args []object.Object, caller *object.Environment) *object.Environment {
	env := object.NewFunctionEnvironment(fn.Env, caller)
	for i, param := range fn.Parameters {
		env.Set(param.Value, args[i], true)
	}
	return env
}

func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

// --- Operators ---

func (e *Evaluator) evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		integer, ok := right.(*object.Integer)
		if !ok {
			return newError("unknown operator: -%s", right.Type())
		}
		if integer.Fractional {
			return object.NewNumber(-integer.Float)
		}
		return &object.Integer{Value: -integer.Value}
	default:
		return newError("unknown operator: %s%s", operator, right.Type())
	}
}

func (e *Evaluator) evalInfixExpression(operator string, left, right object.Object) object.Object {
	switch {
	case operator == "&&" || operator == "and":
		return nativeBoolToBooleanObject(nativeTruth(left) && nativeTruth(right))
	case operator == "||" || operator == "or":
		return nativeBoolToBooleanObject(nativeTruth(left) || nativeTruth(right))
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left.(*object.Integer), right.(*object.Integer))
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(operator, left.(*object.String), right.(*object.String))
	case left.Type() != right.Type():
		return newError("type mismatch: %s %s %s", left.Type(), operator, right.Type())
	case operator == "==":
		return nativeBoolToBooleanObject(left == right)
	case operator == "!=":
		return nativeBoolToBooleanObject(left != right)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIntegerInfixExpression(operator string, left, right *object.Integer) object.Object {
	if left.Fractional || right.Fractional {
		return evalNumberInfixExpression(operator, left.Number(), right.Number())
	}

	l, r := left.Value, right.Value
	switch operator {
	case "+":
		return &object.Integer{Value: l + r}
	case "-":
		return &object.Integer{Value: l - r}
	case "*":
		return &object.Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero")
		}
		if l%r == 0 {
			return &object.Integer{Value: l / r}
		}
		return object.NewNumber(float64(l) / float64(r))
	case "%":
		if r == 0 {
			return newError("division by zero")
		}
		return &object.Integer{Value: l % r}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	case "==":
		return nativeBoolToBooleanObject(l == r)
	case "!=":
		return nativeBoolToBooleanObject(l != r)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

// evalNumberInfixExpression handles arithmetic once a fractional value is involved.
func evalNumberInfixExpression(operator string, l, r float64) object.Object {
	switch operator {
	case "+":
		return object.NewNumber(l + r)
	case "-":
		return object.NewNumber(l - r)
	case "*":
		return object.NewNumber(l * r)
	case "/":
		if r == 0 {
			return newError("division by zero")
		}
		return object.NewNumber(l / r)
	case "%":
		if r == 0 {
			return newError("division by zero")
		}
		return object.NewNumber(math.Mod(l, r))
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	case "==":
		return nativeBoolToBooleanObject(l == r)
	case "!=":
		return nativeBoolToBooleanObject(l != r)
	default:
		return newError("unknown operator: %s %s %s", object.INTEGER_OBJ, operator, object.INTEGER_OBJ)
	}
}

func evalStringInfixExpression(operator string, left, right *object.String) object.Object {
	switch operator {
	case "+":
		return &object.String{Value: left.Value + right.Value}
	case "==":
		return nativeBoolToBooleanObject(left.Value == right.Value)
	case "!=":
		return nativeBoolToBooleanObject(left.Value != right.Value)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

// --- Collections ---

func (e *Evaluator) evalIndexExpression(left, index object.Object) object.Object {
	switch {
	case left.Type() == object.ARRAY_OBJ && index.Type() == object.INTEGER_OBJ:
		return evalArrayIndexExpression(left.(*object.Array), index.(*object.Integer))
	case left.Type() == object.HASH_OBJ:
		return evalHashIndexExpression(left.(*object.Hash), index)
	case left.Type() == object.ARRAY_OBJ:
		return newError("array index must be INTEGER, got %s", index.Type())
	default:
		return newError("index operator not supported: %s", left.Type())
	}
}

func evalArrayIndexExpression(array *object.Array, index *object.Integer) object.Object {
	idx := index.Value
	max := int64(len(array.Elements) - 1)
	if index.Fractional || idx < 0 || idx > max {
		return object.NULL
	}
	return array.Elements[idx]
}

func evalHashIndexExpression(hash *object.Hash, index object.Object) object.Object {
	key, ok := index.(object.Hashable)
	if !ok {
		return newError("unusable as hash key: %s", index.Type())
	}
	pair, ok := hash.Pairs[key.HashKey()]
	if !ok {
		return object.NULL
	}
	return pair.Value
}

func (e *Evaluator) evalHashLiteral(node *ast.HashLiteral, env *object.Environment) object.Object {
	pairs := make(map[object.HashKey]object.HashPair, len(node.Pairs))
	for _, p := range node.Pairs {
		key := e.Eval(p.Key, env)
		if isSignal(key) {
			return key
		}
		hashKey, ok := key.(object.Hashable)
		if !ok {
			return newError("unusable as hash key: %s", key.Type())
		}

		value := e.Eval(p.Value, env)
		if isSignal(value) {
			return value
		}
		pairs[hashKey.HashKey()] = object.HashPair{Key: key, Value: value}
	}
	return &object.Hash{Pairs: pairs}
}

// --- Helpers ---

func newError(format string, a ...any) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return object.TRUE
	}
	return object.FALSE
}

// isTruthy is the truthiness of conditions: only false and null are falsy.
func isTruthy(obj object.Object) bool {
	switch obj {
	case object.NULL, object.FALSE:
		return false
	default:
		return true
	}
}

// nativeTruth is the truth value used by the logical operators, where zero
// and empty values count as false.
func nativeTruth(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Boolean:
		return obj.Value
	case *object.Integer:
		return obj.Number() != 0
	case *object.String:
		return obj.Value != ""
	case *object.Null:
		return false
	case *object.Array:
		return len(obj.Elements) > 0
	case *object.Hash:
		return len(obj.Pairs) > 0
	default:
		return true
	}
}

// isSignal reports whether obj must stop the evaluation of the enclosing
// statements and travel up to whoever handles it.
func isSignal(obj object.Object) bool {
	switch obj.(type) {
	case *object.ReturnValue, *object.Error, *object.Break, *object.Continue, *object.Exit:
		return true
	}
	return false
}
