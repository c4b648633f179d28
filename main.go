// Command plistconv converts Apple property lists to JSON and back.
//
// Binary data inside a property list is written to JSON as text: valid
// UTF-8 as is, anything else as a bytes literal such as b'\x00\xff'.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rebeccajae/plistconv/internal/config"
	"github.com/rebeccajae/plistconv/internal/convert"
	"github.com/rebeccajae/plistconv/internal/logging"
)

var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	Input        string `short:"f" long:"fname" description:"Filename of the plist, omit to read from STDIN"`
	Output       string `short:"o" long:"out" description:"File to write the output to, omit to display on screen"`
	InputFormat  string `short:"I" long:"iformat" description:"Format of input: json, xml (any property list) (default: xml)"`
	OutputFormat string `short:"O" long:"oformat" description:"Format of output: json, xml or binary (default: json)"`
	LogLevel     string `short:"L" long:"loglevel" description:"Log level: trace, debug, info, warning, error, critical (default: info)"`
	Config       string `short:"c" long:"config" description:"TOML file with default settings"`
	Append       bool   `short:"a" long:"append" description:"Append to the output file instead of replacing it"`
	Version      bool   `short:"V" long:"version" description:"Show the version and exit"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "plistconv"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, fe.Message)
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if len(rest) > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", rest)
		return exitUsage
	}
	if opts.Version {
		fmt.Fprintf(stdout, "plistconv %s\n", version)
		return exitOK
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	opts.apply(&cfg)
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(stderr, level)
	logger.Debug().Str("input", displayName(cfg.Input, "<stdin>")).Str("output", displayName(cfg.Output, "<stdout>")).Msg("starting conversion")

	in, _ := convert.ParseFormat(cfg.InputFormat)
	out, _ := convert.ParseFormat(cfg.OutputFormat)

	if f, ok := stdin.(*os.File); ok && cfg.Input == "" && logging.IsTerminal(f) {
		logger.Warn().Msg("reading from terminal, end input with Ctrl-D")
	}
	data, err := readInput(cfg.Input, stdin)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return exitError
	}

	copts := cfg.ConverterOptions()
	copts.Logger = logger
	res, err := convert.New(copts).Convert(data, in, out)
	if err != nil {
		logger.Error().Err(err).Str("iformat", in.String()).Str("oformat", out.String()).Msg("conversion failed")
		return exitError
	}

	if err := writeOutput(cfg.Output, cfg.Append, stdout, res); err != nil {
		logger.Error().Err(err).Msg("failed to write output")
		return exitError
	}
	logger.Debug().Msg("conversion finished")
	return exitOK
}

// apply lets flags that were given win over the config file and the
// environment.
func (o options) apply(cfg *config.Config) {
	if o.Input != "" {
		cfg.Input = o.Input
	}
	if o.Output != "" {
		cfg.Output = o.Output
	}
	if o.InputFormat != "" {
		cfg.InputFormat = o.InputFormat
	}
	if o.OutputFormat != "" {
		cfg.OutputFormat = o.OutputFormat
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Append {
		cfg.Append = true
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeOutput opens the output file only once there is something to write,
// so a failed conversion leaves it untouched.
func writeOutput(path string, appendTo bool, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendTo {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func displayName(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}
