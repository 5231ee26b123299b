package assembler

import (
	"errors"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/stackvm/bytecode"
)

// evaluate does compile-time $(...) evaluations.
// Labels resolved so far, and the register ids, are predeclared.
func (asm *Assembler) evaluate(word string) (value starlark.Value, err error) {
	if len(word) < 3 || word[len(word)-1] != ')' {
		err = ErrParseExpression(word[min(2, len(word)):])
		return
	}
	expr := word[2 : len(word)-1]

	thread := starlark.Thread{Name: "assembler"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for _, sym := range asm.Symbol {
		if sym.Resolved() {
			pred[sym.Name] = starlark.MakeInt(int(sym.Address))
		}
	}
	for _, reg := range bytecode.Registers {
		pred[reg.String()] = starlark.MakeInt(int(reg))
	}

	prog := "rc=(" + expr + ")\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}

	value, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// evaluateInt evaluates an expression that must produce a 32-bit integer.
func (asm *Assembler) evaluateInt(word string) (value int32, err error) {
	st_value, err := asm.evaluate(word)
	if err != nil {
		return
	}

	st_int, ok := st_value.(starlark.Int)
	if !ok {
		err = ErrParseExpression(word[2 : len(word)-1])
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || int64(int32(st_int64)) != st_int64 {
		err = ErrParseExpression(word[2 : len(word)-1])
		return
	}

	value = int32(st_int64)
	return
}

// evaluateFloat evaluates an expression that must produce a number.
func (asm *Assembler) evaluateFloat(word string) (value float64, err error) {
	st_value, err := asm.evaluate(word)
	if err != nil {
		return
	}

	switch v := st_value.(type) {
	case starlark.Float:
		value = float64(v)
	case starlark.Int:
		value = float64(v.Float())
	default:
		err = ErrParseExpression(word[2 : len(word)-1])
	}

	return
}
