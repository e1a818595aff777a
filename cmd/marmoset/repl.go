package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/marmoset-lang/marmoset/internal/lexer"
	"github.com/marmoset-lang/marmoset/internal/object"
	"github.com/marmoset-lang/marmoset/internal/parser"
	"github.com/marmoset-lang/marmoset/internal/vm"
)

const replPrompt = ">> "

// runRepl reads one input per line and keeps bindings alive across
// inputs by carrying the symbol table, constant pool and globals store
// from one compilation to the next.
func runRepl(registry *object.Registry, vmOpts vm.Options) {
	colored := isatty.IsTerminal(os.Stdout.Fd())

	fmt.Printf("Marmoset REPL. Type a statement, Ctrl-D to exit.\n")

	var symbols *vm.SymbolTable
	var constants []object.Object
	globalsSize := vmOpts.GlobalsSize
	if globalsSize <= 0 {
		globalsSize = vm.DefaultGlobalsSize
	}
	globals := make([]object.Object, globalsSize)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(replPrompt)
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		p := parser.New(lexer.New(line))
		program := p.ParseProgram()
		if len(p.Errors()) > 0 {
			for _, err := range p.Errors() {
				printReplError(colored, err.Error())
			}
			continue
		}

		// Each line compiles against a copy of the symbol table, so a
		// failed compilation cannot leave names bound to globals that
		// were never assigned.
		var comp *vm.Compiler
		if symbols == nil {
			comp = vm.NewCompiler(registry)
		} else {
			comp = vm.NewCompilerWithState(registry, symbols.Copy(), constants)
		}

		bytecode, err := comp.Compile(program)
		if err != nil {
			printReplError(colored, err.Error())
			continue
		}
		symbols = comp.Symbols()
		constants = bytecode.Constants

		machine := vm.NewWithGlobalsStore(bytecode, registry, globals, vmOpts)
		result, err := machine.Run()
		if err != nil {
			printReplError(colored, err.Error())
			continue
		}

		fmt.Println(result.Inspect())
	}
}

func printReplError(colored bool, msg string) {
	if colored {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
}
