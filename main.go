package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/codegen"
	"github.com/pontaoski/tally/compiler"
	"github.com/pontaoski/tally/reader"
	"github.com/pontaoski/tally/runtime"
	"github.com/urfave/cli/v2"
)

// source reads the file named on the command line, or the entry file of the
// module in the working directory. doc is nil in the first case.
func source(c *cli.Context) (filename, src string, doc *tallyModule, err error) {
	filename = c.Args().First()
	if filename == "" {
		m, err := readModule(moduleFile)
		if err != nil {
			return "", "", nil, err
		}
		doc = &m
		filename = m.Entry
	}

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return "", "", nil, err
	}

	return filename, string(data), doc, nil
}

func options(c *cli.Context, doc *tallyModule) runtime.Options {
	opts := runtime.Options{MaxCallDepth: c.Int("max-call-depth")}
	if !c.IsSet("max-call-depth") && doc != nil {
		opts.MaxCallDepth = doc.MaxCallDepth
	}
	return opts
}

func packageName(filename string, doc *tallyModule) string {
	if doc != nil {
		return doc.Package
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

var maxCallDepthFlag = &cli.IntFlag{
	Name:  "max-call-depth",
	Usage: "maximum number of nested calls",
}

func main() {
	app := &cli.App{
		Name:  "tally",
		Usage: "tally interpreter and compiler",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "log the time every stage takes",
				Destination: &verbose,
			},
		},
		ExitErrHandler: func(context *cli.Context, err error) {
			if err != nil {
				report(err)
				os.Exit(1)
			}
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "init a directory",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("no module name provided")
					}
					if _, err := os.Stat(moduleFile); err == nil {
						return fmt.Errorf("%s already exists", moduleFile)
					}

					return writeModule(moduleFile, newModule(name))
				},
			},
			{
				Name:      "run",
				Usage:     "run a program and print its result",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{maxCallDepthFlag},
				Action: func(c *cli.Context) error {
					filename, src, doc, err := source(c)
					if err != nil {
						return err
					}

					start := time.Now()
					v, err := compiler.Run(src, filename, options(c, doc))
					stage("run", start)
					if err != nil {
						return err
					}

					fmt.Println(v)
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "infer the types of a program without running it",
				ArgsUsage: "[FILE]",
				Action: func(c *cli.Context) error {
					filename, src, _, err := source(c)
					if err != nil {
						return err
					}

					start := time.Now()
					_, ctx, err := compiler.Check(src, filename)
					stage("check", start)
					if err != nil {
						return err
					}

					var names []string
					for name := range ctx.Bindings {
						names = append(names, name)
					}
					sort.Strings(names)

					for _, name := range names {
						fmt.Printf("%s: %s\n", name, ctx.Bindings[name])
					}
					for _, inst := range ctx.Instances {
						fmt.Printf("function %s\n", inst)
					}
					fmt.Printf("result: %s\n", ctx.Result)
					return nil
				},
			},
			{
				Name:      "parse",
				Usage:     "dump the syntax tree of a program",
				ArgsUsage: "[FILE]",
				Action: func(c *cli.Context) error {
					filename, src, _, err := source(c)
					if err != nil {
						return err
					}

					prog, err := compiler.Parse(src, filename)
					if err != nil {
						return err
					}

					repr.Println(prog)
					return nil
				},
			},
			{
				Name:      "fmt",
				Usage:     "print a program in canonical form",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "write",
						Usage: "overwrite the file instead of printing",
					},
				},
				Action: func(c *cli.Context) error {
					filename, src, _, err := source(c)
					if err != nil {
						return err
					}

					prog, err := compiler.Parse(src, filename)
					if err != nil {
						return err
					}

					out := ast.Format(prog)
					if c.Bool("write") {
						return ioutil.WriteFile(filename, []byte(out), 0644)
					}

					fmt.Print(out)
					return nil
				},
			},
			{
				Name:      "typeinfo",
				Usage:     "dump typeinfo from a compiled library",
				ArgsUsage: "LIBRARY",
				Action: func(c *cli.Context) error {
					file := c.Args().Get(0)
					if file == "" {
						return fmt.Errorf("no library provided")
					}
					if !strings.ContainsRune(file, filepath.Separator) {
						file = "." + string(filepath.Separator) + file
					}

					data, err := reader.ReadString(file, codegen.TypeInfoSymbol)
					if err != nil {
						return err
					}
					info, err := codegen.DecodeTypeInfo(data)
					if err != nil {
						return err
					}

					repr.Println(info)
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "build a program",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the LLVM IR instead of compiling it",
						Value: false,
					},
					&cli.BoolFlag{
						Name:  "library",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					filename, src, doc, err := source(c)
					if err != nil {
						return err
					}
					pkg := packageName(filename, doc)

					start := time.Now()
					prog, ctx, err := compiler.Check(src, filename)
					stage("check", start)
					if err != nil {
						return err
					}

					start = time.Now()
					module, err := codegen.Generate(prog, ctx, codegen.Settings{
						Library:  c.Bool("library"),
						Package:  pkg,
						Language: LanguageVersion,
						Source:   src,
					})
					stage("codegen", start)
					if err != nil {
						return err
					}

					if c.Bool("dump") {
						fmt.Println(module)
						return nil
					}

					out := c.String("output")
					if out == "" {
						out = pkg
						if c.Bool("library") {
							out = "lib" + pkg + ".so"
						}
					}

					cmd := exec.Command("clang", "-o", out)
					if c.Bool("library") {
						cmd.Args = append(cmd.Args, "-shared", "-fPIC")
					}

					fi, err := ioutil.TempFile("", "*.ll")
					if err != nil {
						return err
					}
					defer os.Remove(fi.Name())
					defer fi.Close()

					_, err = fi.WriteString(module.String())
					if err != nil {
						return err
					}

					cmd.Args = append(cmd.Args, fi.Name())

					cmd.Stdout = os.Stdout
					cmd.Stderr = os.Stderr

					start = time.Now()
					err = cmd.Run()
					stage("clang", start)
					return err
				},
			},
			{
				Name:  "repl",
				Usage: "evaluate programs interactively",
				Flags: []cli.Flag{maxCallDepthFlag},
				Action: func(c *cli.Context) error {
					return repl(options(c, nil))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		report(err)
		os.Exit(1)
	}
}
