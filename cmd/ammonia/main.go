package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dsh2dsh/ammonia"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	policyFile string
	outputFile string
	textMode   bool
	watchMode  bool
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "ammonia [FILE|-]...",
		Short: "Sanitize untrusted HTML",
		Long: paragraph(fmt.Sprintf(
			"\n%s untrusted HTML fragments using an allowlist policy. Reads files or stdin and writes the clean HTML to stdout.",
			keyword("Sanitize"))),
		Example: paragraph(
			"ammonia comment.html\ncat comment.html | ammonia\nammonia --policy policy.yml --watch comment.html"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return validateOptions()
		},
		RunE: execute,
	}

	errNoInput = errors.New("no input: pass a FILE or pipe HTML to stdin")
)

func validateOptions() error {
	if configFile != "" {
		viper.SetConfigFile(expandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	// grab config values from Viper
	policyFile = expandPath(viper.GetString("policy"))
	outputFile = expandPath(viper.GetString("output"))
	textMode = viper.GetBool("text")
	debug = viper.GetBool("debug")

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if watchMode && textMode {
		return errors.New("--watch can't be used with --text")
	}
	return nil
}

// cleaner turns input into output: it's a Sanitizer or the text escaper.
type cleaner func(r io.Reader, w io.Writer) error

func newCleaner(policyPath string) (cleaner, error) {
	if textMode {
		return cleanText, nil
	}

	s, err := loadSanitizer(policyPath)
	if err != nil {
		return nil, err
	}
	return s.CleanReaderToWriter, nil
}

func cleanText(r io.Reader, w io.Writer) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if _, err := io.WriteString(w, ammonia.CleanText(string(b))); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// loadSanitizer compiles policy from file path, or the default one if path is
// empty.
func loadSanitizer(path string) (*ammonia.Sanitizer, error) {
	if path == "" {
		return ammonia.New(nil)
	}

	p, err := ammonia.LoadPolicy(path)
	if err != nil {
		return nil, err
	}

	s, err := ammonia.New(p)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", path, err)
	}
	log.Debug("Loaded policy", "path", path)
	return s, nil
}

func stdinIsPipe() (bool, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, err
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		// if stdin is a pipe then use stdin for input. note that you can also
		// explicitly use a - to read from stdin.
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if !yes {
			return errNoInput
		}
		args = []string{"-"}
	}

	clean, err := newCleaner(policyFile)
	if err != nil {
		return err
	}

	w, closeOutput, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	if watchMode {
		var current atomic.Pointer[cleaner]
		current.Store(&clean)
		return newWatcher(args, policyFile, &current, w).Run()
	}

	for _, arg := range args {
		if err := executeArg(clean, arg, w); err != nil {
			return err
		}
	}
	return closeOutput()
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	var closed bool
	return f, func() error {
		if closed {
			return nil
		}
		closed = true
		return f.Close()
	}, nil
}

func executeArg(clean cleaner, arg string, w io.Writer) error {
	r, size, err := openSource(arg)
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck

	cw := &countWriter{w: w}
	if err := clean(r, cw); err != nil {
		return fmt.Errorf("%s: %w", sourceName(arg), err)
	}

	log.Debug("Sanitized", "source", sourceName(arg),
		"in", humanize.Bytes(uint64(size)), "out", humanize.Bytes(cw.n))
	return nil
}

// openSource opens the file named by arg, or stdin for "-".
func openSource(arg string) (io.ReadCloser, int64, error) {
	if arg == "-" {
		return io.NopCloser(os.Stdin), 0, nil
	}

	f, err := os.Open(expandPath(arg))
	if err != nil {
		return nil, 0, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, st.Size(), nil
}

func sourceName(arg string) string {
	if arg == "-" {
		return "stdin"
	}
	return arg
}

type countWriter struct {
	w io.Writer
	n uint64
}

func (self *countWriter) Write(p []byte) (int, error) {
	n, err := self.w.Write(p)
	self.n += uint64(n)
	return n, err //nolint:wrapcheck // call forwarder
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug messages")
	rootCmd.PersistentFlags().StringVarP(&policyFile, "policy", "p", "",
		"policy file, YAML or JSON (default policy if empty)")
	rootCmd.Flags().BoolVarP(&textMode, "text", "t", false,
		"escape input as plain text instead of sanitizing HTML")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false,
		"sanitize again when input files or policy file change")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"write output to file instead of stdout")

	// Config bindings
	_ = viper.BindPFlag("policy", rootCmd.PersistentFlags().Lookup("policy"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("text", rootCmd.Flags().Lookup("text"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(policyCmd, checkCmd, manCmd)
}
