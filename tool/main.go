package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

type Field struct {
	Name string `@Ident`
	Kind *Kind  `@@`
}

// Kind is a named type, a slice of one, or a record of fields.
type Kind struct {
	Fields []*Field `(  "{" @@ ( ";" @@ )* "}"`
	Slice  bool     ` | @( "[" "]" )?`
	Name   string   `   @Ident )`
}

type TCase struct {
	Name string `@Ident "of"`
	Kind *Kind  `@@`
}

type Declaration struct {
	Name  string   `"type" @Ident "="`
	Plain *Kind    `(  @@`
	Many  []*TCase ` | ( "|" @@ )+ )`
	I     struct{} `";"`
}

func (t *TypeDecls) IsSumType(name string) bool {
	for _, decls := range t.Declarations {
		if decls.Name == name && decls.Many != nil {
			return true
		}
	}
	return false
}

func kindCode(k *Kind) Code {
	if k.Slice {
		return Index().Id(k.Name)
	}
	return Id(k.Name)
}

func fieldsCode(fields []*Field) []Code {
	var ret []Code
	for _, field := range fields {
		ret = append(ret, Id(field.Name).Add(kindCode(field.Kind)))
	}
	return ret
}

func GenerateDecls(source, pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment(fmt.Sprintf("Code generated by tool from %s; DO NOT EDIT.", source))

	for _, decl := range t.Declarations {
		if decl.Plain != nil {
			if decl.Plain.Fields != nil {
				f.Type().Id(decl.Name).Struct(fieldsCode(decl.Plain.Fields)...)
			} else {
				f.Type().Id(decl.Name).Add(kindCode(decl.Plain))
			}
		} else if decl.Many != nil {
			f.Type().Id(decl.Name).Interface(
				Id("is_" + decl.Name).Params(),
			)

			for _, it := range decl.Many {
				switch {
				case it.Kind.Fields != nil:
					f.Type().Id(it.Name).Struct(fieldsCode(it.Kind.Fields)...)
				case t.IsSumType(it.Kind.Name) && !it.Kind.Slice:
					f.Type().Id(it.Name).Struct(Id(it.Kind.Name))
				default:
					f.Type().Id(it.Name).Add(kindCode(it.Kind))
				}

				f.Func().Params(Id("v").Id(it.Name)).Id("is_" + decl.Name).Params().Block()
			}
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&TypeDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	ast := TypeDecls{}
	err = parser.ParseBytes(inData, &ast)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(filepath.Base(in), pkgname, &ast)), 0644)
	if err != nil {
		panic(err)
	}
}
