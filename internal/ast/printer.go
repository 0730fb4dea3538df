package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Contract:
		bases := ""
		if len(n.Bases) > 0 {
			bases = " is " + strings.Join(n.Bases, ", ")
		}
		sb.WriteString(fmt.Sprintf("%sContract: %s%s\n", prefix, n.Name, bases))
		for _, v := range n.StateVariables {
			printNode(sb, v, indent+1)
		}
		for _, e := range n.Events {
			printNode(sb, e, indent+1)
		}
		if n.Constructor != nil {
			printNode(sb, n.Constructor, indent+1)
		}
		for _, fn := range n.Functions {
			printNode(sb, fn, indent+1)
		}

	case *StateVariable:
		sb.WriteString(fmt.Sprintf("%sStateVariable: %s %s%s\n", prefix, n.Name, n.Type, modifiers(n.Visibility, constantTag(n.IsConstant))))
		for m := n.Nested; m != nil; m = m.Nested {
			sb.WriteString(fmt.Sprintf("%s  Nested: %s\n", prefix, m))
		}
		if n.InitialValue != nil {
			sb.WriteString(fmt.Sprintf("%s  Initial:\n", prefix))
			printNode(sb, n.InitialValue, indent+2)
		}

	case *Event:
		sb.WriteString(fmt.Sprintf("%sEvent: %s\n", prefix, n.Name))
		for _, p := range n.Params {
			printNode(sb, p, indent+1)
		}

	case *EventParameter:
		indexed := ""
		if n.Indexed {
			indexed = " (indexed)"
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s%s\n", prefix, n.Name, n.Type, indexed))

	case *Constructor:
		sb.WriteString(fmt.Sprintf("%sConstructor%s\n", prefix, modifiers(n.Visibility)))
		printParams(sb, n.Params, prefix, indent)
		printBody(sb, n.Body, prefix, indent)

	case *Function:
		sb.WriteString(fmt.Sprintf("%sFunction: %s%s\n", prefix, n.Name, modifiers(n.Visibility, n.Mutability)))
		printParams(sb, n.Params, prefix, indent)
		if n.ReturnType != "" {
			sb.WriteString(fmt.Sprintf("%s  Returns: %s\n", prefix, n.ReturnType))
		}
		printBody(sb, n.Body, prefix, indent)

	case *Param:
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, n.Name, n.Type))

	case *ExprStmt:
		sb.WriteString(fmt.Sprintf("%sExprStmt\n", prefix))
		printNode(sb, n.Expr, indent+1)

	case *ReturnStmt:
		sb.WriteString(fmt.Sprintf("%sReturn\n", prefix))
		printNode(sb, n.Value, indent+1)

	case *AssignStmt:
		sb.WriteString(fmt.Sprintf("%sAssign: %s\n", prefix, n.Name))
		printNode(sb, n.Value, indent+1)

	case *MapAssignStmt:
		sb.WriteString(fmt.Sprintf("%sMapAssign: %s\n", prefix, n.Map))
		sb.WriteString(fmt.Sprintf("%s  Key:\n", prefix))
		printNode(sb, n.Key, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Value:\n", prefix))
		printNode(sb, n.Value, indent+2)

	case *EmitStmt:
		sb.WriteString(fmt.Sprintf("%sEmit: %s\n", prefix, n.Event))
		for _, a := range n.Args {
			printNode(sb, a, indent+1)
		}

	case *Literal:
		sb.WriteString(fmt.Sprintf("%sLiteral: %s\n", prefix, n.Value))

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdentifier: %s\n", prefix, n.Name))

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinaryExpr: %s\n", prefix, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *MapAccessExpr:
		sb.WriteString(fmt.Sprintf("%sMapAccess: %s\n", prefix, n.Map))
		printNode(sb, n.Key, indent+1)

	case *MemberAccessExpr:
		sb.WriteString(fmt.Sprintf("%sMemberAccess: .%s\n", prefix, n.Member))
		printNode(sb, n.Object, indent+1)

	case *CallExpr:
		sb.WriteString(fmt.Sprintf("%sCall: %s\n", prefix, n.Function))
		for _, a := range n.Args {
			printNode(sb, a, indent+1)
		}

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown node %T>\n", prefix, node))
	}
}

func printParams(sb *strings.Builder, params []*Param, prefix string, indent int) {
	if len(params) == 0 {
		sb.WriteString(fmt.Sprintf("%s  Params: none\n", prefix))
		return
	}
	sb.WriteString(fmt.Sprintf("%s  Params:\n", prefix))
	for _, p := range params {
		printNode(sb, p, indent+2)
	}
}

func printBody(sb *strings.Builder, body []Statement, prefix string, indent int) {
	if len(body) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
	for _, stmt := range body {
		printNode(sb, stmt, indent+2)
	}
}

func constantTag(isConstant bool) string {
	if isConstant {
		return "constant"
	}
	return ""
}

// modifiers renders the non-empty tags as " (a b)".
func modifiers(tags ...string) string {
	var parts []string
	for _, t := range tags {
		if t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " ") + ")"
}
