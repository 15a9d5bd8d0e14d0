package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/peterh/liner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sergev/closures/config"
	"github.com/sergev/closures/lang"
	"github.com/sergev/closures/parser"
	"github.com/sergev/closures/runtime"
)

type args struct {
	Config  string `arg:"--config,env:CLOSURES_CONFIG" help:"YAML configuration file"`
	Dialect string `arg:"--dialect" help:"keyword set: scheme or js"`
	Verbose bool   `arg:"-v,--verbose" help:"log every function application"`
	Script  string `arg:"positional" help:"script to run, or - for standard input"`
}

func (args) Description() string {
	return "closures runs programs in a small lexically scoped language with first-class functions."
}

func main() {
	var a args
	arg.MustParse(&a)
	os.Exit(run(a, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status: 0 on
// success, 1 when the script fails, 2 on a configuration error.
func run(a args, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, dialect, err := loadConfig(a)
	if err != nil {
		fmt.Fprintf(stderr, "closures: %v\n", err)
		return 2
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(stderr, "closures: %v\n", err)
		return 2
	}
	if a.Verbose {
		level = zapcore.DebugLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		fmt.Fprintf(stderr, "closures: %v\n", err)
		return 2
	}
	defer logger.Sync()

	ev := runtime.NewEvaluator(lang.WithLogger(logger))
	if a.Script != "" {
		if err := runScript(ev, a.Script, dialect, stdin, stdout); err != nil {
			logger.Debug("script failed", zap.String("script", a.Script), zap.Error(err))
			fmt.Fprintf(stderr, "closures: %v\n", err)
			return 1
		}
		return 0
	}

	s := &session{ev: ev, dialect: dialect, out: stdout, errOut: stderr, log: logger}
	if !isInteractive() {
		s.runBuffered(bufio.NewReader(stdin))
		return 0
	}
	runInteractiveREPL(s, cfg)
	return 0
}

// loadConfig reads the configuration file, if any, and applies the flags
// on top of it.
func loadConfig(a args) (config.Config, parser.Dialect, error) {
	cfg := config.Default()
	if a.Config != "" {
		var err error
		if cfg, err = config.Load(a.Config); err != nil {
			return cfg, parser.Dialect{}, err
		}
	}
	if a.Dialect != "" {
		cfg.Dialect = a.Dialect
	}
	dialect, err := cfg.ResolveDialect()
	if err != nil {
		return cfg, parser.Dialect{}, err
	}
	return cfg, dialect, nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to construct logger: %w", err)
	}
	return logger, nil
}

// runScript evaluates a file, or stdin when path is "-", and prints the
// final value.
func runScript(ev *lang.Evaluator, path string, d parser.Dialect, stdin io.Reader, out io.Writer) error {
	var (
		val lang.Exp
		err error
	)
	if path == "-" {
		val, err = runtime.EvaluateReader(ev, stdin, d)
	} else {
		val, err = runtime.EvaluateFile(ev, path, d)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, val.String())
	return nil
}

// session is one REPL conversation over a single global environment.
type session struct {
	ev      *lang.Evaluator
	dialect parser.Dialect
	out     io.Writer
	errOut  io.Writer
	log     *zap.Logger
}

// command handles a REPL command line. quit reports that the session
// should end.
func (s *session) command(line string) (handled, quit bool) {
	switch strings.TrimSpace(line) {
	case ":quit", ":q":
		return true, true
	case ":env":
		fmt.Fprintln(s.out, strings.Join(s.ev.Global.Names(), " "))
		return true, false
	case ":help":
		fmt.Fprintln(s.out, ":env   list global names")
		fmt.Fprintln(s.out, ":quit  leave the REPL")
		return true, false
	}
	return false, false
}

// eval parses and evaluates accumulated input, printing each top-level
// value. It reports whether the input is incomplete and more lines are
// needed. When final is set no more input will come and incomplete input
// is an error.
func (s *session) eval(src string, final bool) (incomplete bool) {
	expr, err := parser.ParseWith(src, s.dialect)
	if err != nil {
		if parser.IsIncomplete(err) && !final {
			return true
		}
		fmt.Fprintf(s.errOut, "parse error: %v\n", err)
		return false
	}
	forms := []lang.Exp{expr}
	if expr.Kind == lang.KindStatements {
		forms = expr.Items()
	}
	for _, form := range forms {
		val, err := s.ev.Eval(form, nil)
		if err != nil {
			s.log.Debug("evaluation failed", zap.Stringer("form", form), zap.Error(err))
			fmt.Fprintf(s.errOut, "error: %v\n", err)
			break
		}
		fmt.Fprintln(s.out, val.String())
	}
	return false
}

func (s *session) runBuffered(reader *bufio.Reader) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(s.errOut, "read error: %v\n", err)
			return
		}
		atEOF := err != nil
		if buffer.Len() == 0 {
			if handled, quit := s.command(line); handled {
				if quit || atEOF {
					return
				}
				continue
			}
			if strings.TrimSpace(line) == "" {
				if atEOF {
					return
				}
				continue
			}
		}
		buffer.WriteString(line)
		if s.eval(buffer.String(), atEOF) {
			continue
		}
		buffer.Reset()
		if atEOF {
			return
		}
	}
}

func runInteractiveREPL(s *session, cfg config.Config) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if historyPath := cfg.HistoryPath(); historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(historyPath)
			if err != nil {
				s.log.Warn("cannot write history", zap.String("path", historyPath), zap.Error(err))
				return
			}
			state.WriteHistory(f)
			f.Close()
		}()
	}

	var buffer strings.Builder

	for {
		prompt := cfg.REPL.Prompt
		if buffer.Len() > 0 {
			prompt = cfg.REPL.Continuation
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(s.out)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(s.out)
				return
			default:
				fmt.Fprintf(s.errOut, "read error: %v\n", err)
				return
			}
		}
		if buffer.Len() == 0 {
			if handled, quit := s.command(input); handled {
				state.AppendHistory(strings.TrimSpace(input))
				if quit {
					return
				}
				continue
			}
			if strings.TrimSpace(input) == "" {
				continue
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if s.eval(src, false) {
			continue
		}
		buffer.Reset()
		state.AppendHistory(strings.TrimSpace(src))
	}
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
