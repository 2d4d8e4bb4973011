package ast

//go:generate sh -c "cd ../tool && go run . ../ast/ast.adt ../ast/ast.go ast"
