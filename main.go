package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/compiler"
	"gopkg.starbuild.dev/langfront.go/internal/dialect"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

type opts struct {
	Roots      []string
	Dialect    string
	DumpTokens bool
	DumpTree   bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("langfrontc", pflag.PanicOnError)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for the target files.")
	flags.StringVar(&op.Dialect, "dialect", "strict", "Dialect to parse under: strict or permissive.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Print the token stream for each file instead of its tree.")
	flags.BoolVar(&op.DumpTree, "dump-tree", false, "Print the parsed tree for each file.")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	gate, err := parseDialect(op.Dialect)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	c, err := compiler.New(
		compiler.WithLookupEnv(os.LookupEnv),
		compiler.WithDialect(gate),
		compiler.WithFSRoots(op.Roots),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result, d := c.Parse(ctx, targets, compiler.ParseOptions{DumpTokens: op.DumpTokens})
	if d != nil {
		fmt.Fprintln(os.Stderr, d.Error())
		os.Exit(1)
	}

	for _, file := range result.Files {
		fmt.Printf("=== %s ===\n", file.Path)
		if op.DumpTokens {
			dumpTokens(file.Tokens)
			continue
		}
		if op.DumpTree {
			dumpTree(file.Tree, 0)
		}
	}
}

func parseDialect(name string) (dialect.Gate, error) {
	switch name {
	case "strict":
		return dialect.Strict(), nil
	case "permissive":
		return dialect.Permissive(), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q (want strict or permissive)", name)
	}
}

func dumpTokens(toks []*token.Token) {
	for _, tok := range toks {
		fmt.Printf("%-16s", tok.Kind)
		if tok.Kind != token.KindNewline && tok.Kind != token.KindIndent && tok.Kind != token.KindDedent {
			fmt.Printf("%q", tok.Text)
		}
		fmt.Println()
	}
}

// dumpTree prints a parsed tree in a terse, indented form: one node per
// line, children nested below their parent. It walks the closed Stmt/Expr
// variant set directly rather than via reflection, since the variant set
// is closed and small enough to enumerate.
func dumpTree(s ast.Stmt, depth int) {
	indent := func() { fmt.Print(indentString(depth)) }
	switch n := s.(type) {
	case ast.StatementsStmt:
		indent()
		fmt.Println("Statements")
		for _, child := range n.Stmts {
			dumpTree(child, depth+1)
		}
	case ast.ExprStmt:
		indent()
		fmt.Println("ExprStmt")
		dumpExpr(n.X, depth+1)
	case ast.ReturnStmt:
		indent()
		fmt.Println("Return")
		if n.Value != nil {
			dumpExpr(n.Value, depth+1)
		}
	case ast.BreakStmt:
		indent()
		fmt.Println("Break")
	case ast.ContinueStmt:
		indent()
		fmt.Println("Continue")
	case ast.PassStmt:
		indent()
		fmt.Println("Pass")
	case ast.AssignStmt:
		indent()
		fmt.Println("Assign")
		dumpExpr(n.LHS, depth+1)
		if n.Type != nil {
			dumpExpr(n.Type, depth+1)
		}
		dumpExpr(n.RHS, depth+1)
	case ast.IfStmt:
		indent()
		fmt.Println("If")
		dumpExpr(n.Cond, depth+1)
		dumpTree(n.Then, depth+1)
	case ast.IfElseStmt:
		indent()
		fmt.Println("IfElse")
		dumpExpr(n.Cond, depth+1)
		dumpTree(n.Then, depth+1)
		dumpTree(n.Else, depth+1)
	case ast.ForStmt:
		indent()
		fmt.Println("For")
		dumpExpr(n.Target, depth+1)
		dumpExpr(n.Iter, depth+1)
		dumpTree(n.Body, depth+1)
	case ast.DefStmt:
		indent()
		fmt.Printf("Def %s\n", n.Name)
		dumpTree(n.Body, depth+1)
	case ast.LoadStmt:
		indent()
		fmt.Printf("Load %q\n", n.Module)
	default:
		indent()
		fmt.Printf("%T\n", n)
	}
}

func dumpExpr(e ast.Expr, depth int) {
	indent := func() { fmt.Print(indentString(depth)) }
	switch n := e.(type) {
	case ast.Identifier:
		indent()
		fmt.Printf("Identifier %s\n", n.Name)
	case ast.Literal:
		indent()
		switch n.Kind {
		case ast.LiteralInt:
			fmt.Printf("Literal %s\n", n.Int.String())
		case ast.LiteralFloat:
			fmt.Printf("Literal %v\n", n.Float)
		default:
			fmt.Printf("Literal %q\n", n.Str)
		}
	case ast.Op:
		indent()
		fmt.Println("Op")
		dumpExpr(n.Left, depth+1)
		dumpExpr(n.Right, depth+1)
	case ast.Call:
		indent()
		fmt.Println("Call")
		dumpExpr(n.Func, depth+1)
	case ast.Dot:
		indent()
		fmt.Printf("Dot .%s\n", n.Attr)
		dumpExpr(n.X, depth+1)
	default:
		indent()
		fmt.Printf("%T\n", n)
	}
}

func indentString(depth int) string {
	b := make([]byte, depth*2)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
