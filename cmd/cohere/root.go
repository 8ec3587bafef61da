package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/zoobzio/cohere"
	"github.com/zoobzio/cohere/config"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
	debug      bool
	query      string

	cfg    *config.Config
	logger *logrus.Logger
	client *cohere.Client
	unhook func()
}

// Close detaches the log observer.
func (a *app) Close() {
	if a.unhook != nil {
		a.unhook()
		a.unhook = nil
	}
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:          "cohere",
		Short:        "Call the Cohere API",
		Long:         "cohere sends requests to the Cohere text and language-model API and prints the JSON response.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file path (YAML)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "load environment variables from these files instead of ./.env")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (text or json)")
	flags.BoolVar(&a.debug, "debug", false, "print request payloads and responses to stderr")
	flags.StringVarP(&a.query, "query", "q", "", "print only the value at this path of the response, e.g. generations.0.text")

	root.AddCommand(
		operationCmd[cohere.ChatParams](a, "chat", "Chat with a model (v2)", true, (*cohere.Client).Chat),
		operationCmd[cohere.EmbedParams](a, "embed", "Embed texts or images (v2)", false, (*cohere.Client).Embed),
		operationCmd[cohere.RerankParams](a, "rerank", "Rerank documents against a query (v2)", false, (*cohere.Client).Rerank),
		operationCmd[cohere.GenerateParams](a, "generate", "Generate text from a prompt", true, (*cohere.Client).Generate),
		operationCmd[cohere.ClassifyParams](a, "classify", "Classify inputs", false, (*cohere.Client).Classify),
		operationCmd[cohere.TokenizeParams](a, "tokenize", "Split text into tokens", false, (*cohere.Client).Tokenize),
		operationCmd[cohere.DetokenizeParams](a, "detokenize", "Turn tokens back into text", false, (*cohere.Client).Detokenize),
		operationCmd[cohere.DetectLanguageParams](a, "detect-language", "Identify the language of texts", false, (*cohere.Client).DetectLanguage),
		operationCmd[cohere.SummarizeParams](a, "summarize", "Summarize text", false, (*cohere.Client).Summarize),
		operationCmd[cohere.ChatV1Params](a, "chat-v1", "Chat with a model (legacy v1)", true, (*cohere.Client).ChatV1),
		operationCmd[cohere.EmbedV1Params](a, "embed-v1", "Embed texts (legacy v1)", false, (*cohere.Client).EmbedV1),
		operationCmd[cohere.RerankV1Params](a, "rerank-v1", "Rerank documents (legacy v1)", false, (*cohere.Client).RerankV1),
		operationsCmd(),
		converseCmd(a),
	)

	return root, a
}

// setup loads configuration and builds the logger and client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.envFiles...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if a.debug {
		cfg.Logging.Level = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logger()
	logger.SetOutput(cmd.ErrOrStderr())

	var opts []cohere.Option
	if a.debug {
		opts = append(opts, cohere.WithDebug(cmd.ErrOrStderr()))
	}

	a.cfg = cfg
	a.logger = logger
	a.client = cohere.New(cfg.Client(), opts...)
	a.Close()
	a.unhook = observe(logger)

	logger.WithFields(logrus.Fields{
		"v1":            cfg.BaseURLs.V1,
		"v2":            cfg.BaseURLs.V2,
		"authenticated": cfg.APIKey != "",
	}).Debug("client configured")
	return nil
}

var errNoParams = errors.New("request parameters are required: use --params or --file")

// readParams decodes the JSON request parameters into params.
// Unknown fields are rejected so that misspelled wire names do not go unnoticed.
func readParams(cmd *cobra.Command, inline, file string, params any) error {
	var r io.Reader
	switch {
	case file == "-":
		r = cmd.InOrStdin()
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening params file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	case inline != "":
		r = strings.NewReader(inline)
	default:
		return errNoParams
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("decoding params: %w", err)
	}
	return nil
}

// print writes a response: the queried value, indented JSON, or the raw body.
func (a *app) print(w io.Writer, resp *cohere.Response) error {
	if a.query != "" {
		_, err := fmt.Fprintln(w, resp.Get(a.query).String())
		return err
	}
	if resp.Body != nil {
		_, err := w.Write(pretty.Pretty(resp.Raw))
		return err
	}
	_, err := w.Write(resp.Raw)
	return err
}
