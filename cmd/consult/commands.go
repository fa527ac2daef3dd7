package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/robotics-consultant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/robotics-consultant/internal/config"
	"github.com/wolfman30/robotics-consultant/internal/conversation"
	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

type configLoader func() (*appconfig.Config, error)

// session is what every subcommand needs: config, a stderr logger and the
// LLM client built from config.
type session struct {
	cfg    *appconfig.Config
	logger *logging.Logger
	llm    *bootstrap.LLM
}

func openSession(ctx context.Context, cmd *cobra.Command, load configLoader, verbose bool) (*session, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	level := "warn"
	if verbose {
		level = cfg.LogLevel
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
	llm, err := bootstrap.BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, llm: llm}, nil
}

func (s *session) engine() (*conversation.Engine, error) {
	return bootstrap.BuildEngine(s.cfg, s.llm.Client, s.llm.Model, nil, s.logger)
}

func (s *session) close() {
	_ = s.llm.Close()
}

func buildRootCommand(load configLoader) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "consult",
		Short: "Talk to the robotics sales consultant from the terminal",
		Long: strings.TrimSpace(`consult runs the consultant engine locally with the same configuration
as the API server (environment variables, optionally from a .env file).`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at LOG_LEVEL instead of warn")

	root.AddCommand(newAskCommand(load, &verbose))
	root.AddCommand(newChatCommand(load, &verbose))
	root.AddCommand(newProbeCommand(load, &verbose))
	return root
}

func newAskCommand(load configLoader, verbose *bool) *cobra.Command {
	var (
		language       string
		conversationID string
	)
	cmd := &cobra.Command{
		Use:     "ask <message>",
		Short:   "Send one message and print the structured reply as JSON",
		Example: `  consult ask "What ROI can I expect for a warehouse?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, load, *verbose)
			if err != nil {
				return err
			}
			defer s.close()
			engine, err := s.engine()
			if err != nil {
				return err
			}

			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" {
				return fmt.Errorf("message is required")
			}
			reply := engine.ProcessMessage(ctx, conversation.MessageRequest{
				Message:        message,
				Language:       language,
				ConversationID: conversationID,
			})
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(reply)
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", "en", "Reply language (en or ar)")
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "Conversation identifier")
	return cmd
}

func newChatCommand(load configLoader, verbose *bool) *cobra.Command {
	var (
		language       string
		conversationID string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation; type exit or quit to leave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, load, *verbose)
			if err != nil {
				return err
			}
			defer s.close()
			engine, err := s.engine()
			if err != nil {
				return err
			}
			return chatLoop(ctx, engine, cmd.InOrStdin(), cmd.OutOrStdout(), language, conversationID)
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", "en", "Reply language (en or ar)")
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "cli", "Conversation identifier")
	return cmd
}

func chatLoop(ctx context.Context, svc conversation.Service, in io.Reader, out io.Writer, language, conversationID string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		reply := svc.ProcessMessage(ctx, conversation.MessageRequest{
			Message:        line,
			Language:       language,
			ConversationID: conversationID,
		})
		fmt.Fprintf(out, "consultant> %s\n", reply.Message)
		if reply.Recommendations != nil && len(reply.Recommendations.Robots) > 0 {
			fmt.Fprintf(out, "  robots: %s\n", strings.Join(reply.Recommendations.Robots, ", "))
		}
		for _, q := range reply.FollowUpQuestions {
			fmt.Fprintf(out, "  ? %s\n", q)
		}
		fmt.Fprintf(out, "  [%s %.2f %s/%s]\n", reply.Strategy, reply.Confidence, reply.ConsultationType, reply.Industry)
	}
}

func newProbeCommand(load configLoader, verbose *bool) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:     "probe [prompt]",
		Short:   "Send one raw completion to the configured LLM provider",
		Example: `  LLM_PROVIDER=bedrock consult probe "Say hello in Arabic"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			s, err := openSession(ctx, cmd, load, *verbose)
			if err != nil {
				return err
			}
			defer s.close()
			if s.llm.Client == nil {
				return fmt.Errorf("no llm provider configured (LLM_PROVIDER=%q)", s.cfg.LLMProvider)
			}

			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				prompt = "Introduce yourself in one sentence."
			}
			req := conversation.PromptRequest(s.llm.Model, prompt, s.cfg.LLMMaxTokens, s.cfg.LLMTemperature)

			start := time.Now()
			resp, err := s.llm.Client.Complete(ctx, req)
			if err != nil {
				return fmt.Errorf("probe failed after %s: %w", time.Since(start).Round(time.Millisecond), err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Text)
			fmt.Fprintf(out, "\nprovider=%s model=%s elapsed=%s tokens_in=%d tokens_out=%d stop=%s\n",
				s.cfg.LLMProvider, s.llm.Model, time.Since(start).Round(time.Millisecond),
				resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall probe timeout")
	return cmd
}
