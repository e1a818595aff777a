package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"

	"github.com/marmoset-lang/marmoset/internal/backend"
	"github.com/marmoset-lang/marmoset/internal/config"
	"github.com/marmoset-lang/marmoset/internal/object"
	"github.com/marmoset-lang/marmoset/internal/parser"
	"github.com/marmoset-lang/marmoset/internal/pipeline"
	"github.com/marmoset-lang/marmoset/internal/vm"

	_ "github.com/tliron/commonlog/simple"
)

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

type cliOptions struct {
	trace      bool
	disasm     bool
	configPath string
	filePath   string
	showHelp   bool
}

func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-trace", "--trace":
			opts.trace = true
		case "-disasm", "--disasm":
			opts.disasm = true
		case "-config", "--config":
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("%s requires a path", arg)
			}
			opts.configPath = args[i]
		case "-h", "-help", "--help":
			opts.showHelp = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag: %s", arg)
			}
			if opts.filePath == "" {
				opts.filePath = arg
			}
		}
	}
	return opts, nil
}

func printUsage() {
	fmt.Println("Usage: marmoset [flags] [file" + config.SourceFileExt + "]")
	fmt.Println()
	fmt.Println("Without a file, marmoset starts a REPL (or reads from a pipe).")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -trace          log every executed instruction")
	fmt.Println("  -disasm         dump bytecode before running")
	fmt.Println("  -config <path>  settings file (default: " + config.SettingsFileName + ")")
	fmt.Println("  -help           show this help")
}

func loadSettings(opts cliOptions) (config.Settings, error) {
	if opts.configPath != "" {
		return config.LoadSettings(opts.configPath)
	}
	return config.LoadSettingsIfPresent()
}

// runPipeline parses, compiles and executes one source unit.
func runPipeline(sourceCode, filePath string, execBackend backend.Backend) bool {
	ctx := pipeline.NewPipelineContext(sourceCode)
	ctx.FilePath = filePath

	processingPipeline := pipeline.New(
		&parser.ParserProcessor{},
		backend.NewExecutionProcessor(execBackend),
	)

	finalContext := processingPipeline.Run(ctx)

	if len(finalContext.Errors) > 0 {
		for _, err := range finalContext.Errors {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return false
	}
	return true
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if opts.showHelp {
		printUsage()
		return
	}

	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	commonlog.Configure(settings.Verbosity, nil)

	vmOpts := vm.Options{
		StackSize:   settings.StackSize,
		MaxFrames:   settings.MaxFrames,
		GlobalsSize: settings.GlobalsSize,
		Trace:       opts.trace || settings.Trace,
	}
	registry := object.NewRegistry(os.Stdout, object.SystemClock{})

	if opts.filePath == "" {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			runRepl(registry, vmOpts)
			return
		}
		// Piped input runs as a script.
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			os.Exit(1)
		}
		execBackend := backend.NewVM(registry, vmOpts)
		execBackend.SetDisassemble(opts.disasm)
		if !runPipeline(string(input), "<stdin>", execBackend) {
			os.Exit(1)
		}
		return
	}

	if !isSourceFile(opts.filePath) {
		fmt.Fprintf(os.Stderr, "Warning: %s does not have a recognized extension %v\n",
			opts.filePath, config.SourceFileExtensions)
	}

	input, err := os.ReadFile(opts.filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
		os.Exit(1)
	}

	absPath, _ := filepath.Abs(opts.filePath)
	execBackend := backend.NewVM(registry, vmOpts)
	execBackend.SetDisassemble(opts.disasm)
	if !runPipeline(string(input), absPath, execBackend) {
		os.Exit(1)
	}
}
