package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bz888/deepcli/internal/api"
	"github.com/bz888/deepcli/internal/chat"
	"github.com/bz888/deepcli/internal/config"
	"github.com/bz888/deepcli/internal/logger"
	"github.com/bz888/deepcli/internal/render"
	"github.com/spf13/cobra"
)

var (
	modelFlag   string
	temperature float64
	maxTokens   int
	interactive bool
	jsonOutput  bool
	filePath    string
)

var rootCmd = &cobra.Command{
	Use:   "deepcli [prompt]",
	Short: "DeepSeek command-line interface",
	Long: `Send a prompt to the DeepSeek chat completions API and print the answer,
or start an interactive chat session with -i.

Examples:
  $ deepcli "Explain generics in Go"
  $ deepcli -m r1 -t 0.7 "Prove there are infinitely many primes"
  $ deepcli --json "List the planets as a JSON array"
  $ deepcli --file diagram.png "What does this diagram show?"
  $ deepcli -i`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "chat", "Model to use: r1 (deepseek-reasoner) or chat (deepseek-chat)")
	rootCmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "Sampling temperature (0.0-2.0)")
	rootCmd.Flags().IntVarP(&maxTokens, "max-tokens", "l", 0, "Maximum number of tokens to generate")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Start an interactive chat session")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output response as formatted JSON")
	rootCmd.Flags().StringVar(&filePath, "file", "", "Attach a file to the prompt")
	rootCmd.Flags().BoolVar(&config.Dev, "dev", false, "Development mode")
	rootCmd.Flags().StringVar(&config.LogPath, "log-path", "", "Path to save the log file")
}

func run(cmd *cobra.Command, args []string) error {
	// The API key is required before anything else happens.
	apiKey, err := config.APIKey()
	if err != nil {
		return err
	}

	opts := api.Options{
		Model:    modelFlag,
		FilePath: filePath,
		JSONMode: jsonOutput,
	}
	if cmd.Flags().Changed("temperature") {
		t := temperature
		opts.Temperature = &t
	}
	if cmd.Flags().Changed("max-tokens") {
		m := maxTokens
		opts.MaxTokens = &m
	}

	client := api.NewDeepSeekClient(apiKey)

	if interactive {
		return chat.Run(client, opts)
	}

	if len(args) == 0 {
		return errors.New("a prompt is required unless --interactive is set")
	}
	opts.Prompt = args[0]

	if err := logger.Init(config.Dev, config.LogPath, os.Stderr); err != nil {
		return err
	}
	defer logger.Close()

	req, err := api.BuildRequest(opts)
	if err != nil {
		return err
	}

	resp, err := client.Chat(cmd.Context(), req)
	if err != nil {
		return err
	}

	return render.Response(os.Stdout, os.Stderr, resp.Choices[0].Message.Content, jsonOutput)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deepcli:", err)
		os.Exit(1)
	}
}
