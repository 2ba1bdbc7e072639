package ast

// Walk traverses the AST rooted at node, calling fn for every node reached.
// If fn returns false, Walk does not descend into that node's children (but
// still continues with the caller's remaining siblings).
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case ExprStmt:
		Walk(n.X, fn)
	case ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, fn)
		}
	case BreakStmt, ContinueStmt, PassStmt:
		// no children
	case AssignStmt:
		Walk(n.LHS, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.RHS, fn)
	case IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
	case IfElseStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case ForStmt:
		Walk(n.Target, fn)
		Walk(n.Iter, fn)
		Walk(n.Body, fn)
	case DefStmt:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.ReturnType != nil {
			Walk(n.ReturnType, fn)
		}
		Walk(n.Body, fn)
	case LoadStmt:
		// module name and pair strings carry no child nodes
	case StatementsStmt:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}

	case Identifier, Literal:
		// leaves
	case FString:
		for _, part := range n.Parts {
			if part.Expr != nil {
				Walk(part.Expr, fn)
			}
		}
	case Tuple:
		for _, e := range n.Elts {
			Walk(e, fn)
		}
	case List:
		for _, e := range n.Elts {
			Walk(e, fn)
		}
	case Dict:
		for _, k := range n.Keys {
			Walk(k, fn)
		}
		for _, v := range n.Values {
			Walk(v, fn)
		}
	case ListComprehension:
		Walk(n.Head, fn)
		Walk(n.First, fn)
		for _, c := range n.Rest {
			Walk(c, fn)
		}
	case DictComprehension:
		Walk(n.KeyHead, fn)
		Walk(n.ValueHead, fn)
		Walk(n.First, fn)
		for _, c := range n.Rest {
			Walk(c, fn)
		}
	case Dot:
		Walk(n.X, fn)
	case Call:
		Walk(n.Func, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case Index:
		Walk(n.X, fn)
		Walk(n.Index, fn)
	case Index2:
		Walk(n.X, fn)
		Walk(n.Index1, fn)
		Walk(n.Index2, fn)
	case Slice:
		Walk(n.X, fn)
		if n.Start != nil {
			Walk(n.Start, fn)
		}
		if n.Stop != nil {
			Walk(n.Stop, fn)
		}
		if n.Step != nil {
			Walk(n.Step, fn)
		}
	case Op:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case Not:
		Walk(n.X, fn)
	case Plus:
		Walk(n.X, fn)
	case Minus:
		Walk(n.X, fn)
	case BitNot:
		Walk(n.X, fn)
	case If:
		Walk(n.Then, fn)
		Walk(n.Cond, fn)
		Walk(n.Else, fn)
	case Lambda:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		Walk(n.Body, fn)

	case Positional:
		if n.Type != nil {
			Walk(n.Type, fn)
		}
	case PositionalDefault:
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Default, fn)
	case Rest:
		if n.Type != nil {
			Walk(n.Type, fn)
		}
	case BareStar:
		// no children
	case KwArgs:
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case PositionalArg:
		Walk(n.Value, fn)
	case NamedArg:
		Walk(n.Value, fn)
	case SplatArg:
		Walk(n.Value, fn)
	case SplatKwArg:
		Walk(n.Value, fn)

	case ForClause:
		Walk(n.Target, fn)
		Walk(n.Iter, fn)
	case IfClause:
		Walk(n.Test, fn)
	}
}
