package evaluator

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/podhmo/monkey/object"
)

var builtins = map[string]*object.Builtin{
	"len": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("wrong number of arguments. got=%d, want=1", len(args))
			}
			switch arg := args[0].(type) {
			case *object.String:
				return &object.Integer{Value: int64(len(arg.Value))}
			case *object.Array:
				return &object.Integer{Value: int64(len(arg.Elements))}
			case *object.Hash:
				return &object.Integer{Value: int64(len(arg.Pairs))}
			default:
				return ctx.NewError("argument to `len` not supported, got %s", args[0].Type())
			}
		},
	},
	"first": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, errObj := arrayArgument(ctx, "first", args)
			if errObj != nil {
				return errObj
			}
			if len(arr.Elements) == 0 {
				return object.NULL
			}
			return arr.Elements[0]
		},
	},
	"last": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, errObj := arrayArgument(ctx, "last", args)
			if errObj != nil {
				return errObj
			}
			if len(arr.Elements) == 0 {
				return object.NULL
			}
			return arr.Elements[len(arr.Elements)-1]
		},
	},
	"rest": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, errObj := arrayArgument(ctx, "rest", args)
			if errObj != nil {
				return errObj
			}
			if len(arr.Elements) == 0 {
				return object.NULL
			}
			elements := make([]object.Object, len(arr.Elements)-1)
			copy(elements, arr.Elements[1:])
			return &object.Array{Elements: elements}
		},
	},
	"push": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("wrong number of arguments. got=%d, want=2", len(args))
			}
			arr, ok := args[0].(*object.Array)
			if !ok {
				return ctx.NewError("argument to `push` must be ARRAY, got %s", args[0].Type())
			}
			arr.Elements = append(arr.Elements, args[1])
			return arr
		},
	},
	"update": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 3 {
				return ctx.NewError("wrong number of arguments. got=%d, want=3", len(args))
			}
			arr, ok := args[0].(*object.Array)
			if !ok {
				return ctx.NewError("first argument to `update` must be ARRAY, got %s", args[0].Type())
			}
			index, ok := args[1].(*object.Integer)
			if !ok {
				return ctx.NewError("second argument to `update` must be INTEGER, got %s", args[1].Type())
			}
			if index.Fractional || index.Value < 0 || index.Value >= int64(len(arr.Elements)) {
				return ctx.NewError("index out of range")
			}
			arr.Elements[index.Value] = args[2]
			return object.NULL
		},
	},
	"print": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			for _, arg := range args {
				fmt.Fprint(ctx.Stdout, arg.Inspect())
			}
			return object.NULL
		},
	},
	"printl": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			for _, arg := range args {
				fmt.Fprintln(ctx.Stdout, arg.Inspect())
			}
			return object.NULL
		},
	},
	"str": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("wrong number of arguments. got=%d, want=1", len(args))
			}
			return &object.String{Value: args[0].Inspect()}
		},
	},
	"int": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("wrong number of arguments. got=%d, want=1", len(args))
			}
			s, ok := args[0].(*object.String)
			if !ok {
				return object.NULL
			}
			if strings.Contains(s.Value, ".") {
				f, err := strconv.ParseFloat(s.Value, 64)
				if err != nil {
					return object.NULL
				}
				return object.NewNumber(f)
			}
			n, err := strconv.ParseInt(s.Value, 10, 64)
			if err != nil {
				return object.NULL
			}
			return &object.Integer{Value: n}
		},
	},
	"input": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			for _, arg := range args {
				fmt.Fprint(ctx.Stdout, arg.Inspect())
			}
			line, err := ctx.ReadLine()
			if err != nil {
				if err == io.EOF {
					return object.NULL
				}
				return ctx.NewError("input: %v", err)
			}
			return &object.String{Value: line}
		},
	},
	"exit": {
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			return object.EXIT
		},
	},
}

func arrayArgument(ctx *object.BuiltinContext, name string, args []object.Object) (*object.Array, *object.Error) {
	if len(args) != 1 {
		return nil, ctx.NewError("wrong number of arguments. got=%d, want=1", len(args))
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, ctx.NewError("argument to `%s` must be ARRAY, got %s", name, args[0].Type())
	}
	return arr, nil
}

// BuiltinNames returns the names of the builtin functions, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
