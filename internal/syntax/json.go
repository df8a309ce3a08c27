package syntax

import (
	"encoding/json"
	"io"
	"math"

	"github.com/you-not-fish/loxi/internal/value"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

// FprintProgramJSON writes a program as a JSON array of statements.
func FprintProgramJSON(w io.Writer, stmts []Stmt) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mapSlice(stmts, func(s Stmt) interface{} { return toJSON(s) }))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *ExprStmt:
		return map[string]interface{}{
			"type": "ExprStmt",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *PrintStmt:
		return map[string]interface{}{
			"type": "PrintStmt",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *VarStmt:
		m := map[string]interface{}{
			"type": "VarStmt",
			"pos":  n.pos.String(),
			"name": n.Name.Lexeme,
		}
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		return m

	case *BlockStmt:
		return map[string]interface{}{
			"type":  "BlockStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, func(s Stmt) interface{} { return toJSON(s) }),
		}

	case *IfStmt:
		m := map[string]interface{}{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
		}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *WhileStmt:
		m := map[string]interface{}{
			"type": "WhileStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}
		if n.Label != nil {
			m["label"] = n.Label.Lexeme
		}
		return m

	case *Literal:
		return map[string]interface{}{
			"type":  "Literal",
			"pos":   n.pos.String(),
			"kind":  n.Value.Kind().String(),
			"value": jsonValue(n.Value),
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Tok.Lexeme,
		}

	case *ParenExpr:
		return map[string]interface{}{
			"type": "ParenExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *UnaryExpr:
		return map[string]interface{}{
			"type": "UnaryExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.Kind.String(),
			"x":    toJSON(n.X),
		}

	case *BinaryExpr:
		return map[string]interface{}{
			"type": "BinaryExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.Kind.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *LogicalExpr:
		return map[string]interface{}{
			"type": "LogicalExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.Kind.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *CondExpr:
		return map[string]interface{}{
			"type": "CondExpr",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
			"else": toJSON(n.Else),
		}

	case *AssignExpr:
		return map[string]interface{}{
			"type":  "AssignExpr",
			"pos":   n.pos.String(),
			"name":  n.Name.Lexeme,
			"value": toJSON(n.Value),
		}

	case *IncDecExpr:
		return map[string]interface{}{
			"type":    "IncDecExpr",
			"pos":     n.pos.String(),
			"name":    n.Name.Lexeme,
			"op":      n.Op.Kind.String(),
			"postfix": n.Postfix,
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

// jsonValue maps a runtime value onto its natural JSON form.
func jsonValue(v value.Value) interface{} {
	switch v := v.(type) {
	case value.Bool:
		return bool(v)
	case value.Number:
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return v.String()
		}
		return f
	case value.String:
		return string(v)
	}
	return nil
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
