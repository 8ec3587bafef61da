package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/cohere"
)

// converseCmd runs a line-oriented v2 chat session on stdin.
// "/clear" forgets the history and "/exit" ends the session.
func converseCmd(a *app) *cobra.Command {
	var model, system string
	var temperature float64

	cmd := &cobra.Command{
		Use:   "converse",
		Short: "Hold a multi-turn chat, one message per input line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conv := cohere.NewConversation(system)
			params := cohere.ChatParams{Model: model}
			if cmd.Flags().Changed("temperature") {
				params.Temperature = cohere.Float(temperature)
			}

			log := a.logger.WithField("conversation", conv.ID())
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "/exit":
					return nil
				case "/clear":
					conv.Clear()
					log.Debug("history cleared")
					continue
				}

				reply, err := conv.Send(cmd.Context(), a.client, params, line)
				if err != nil {
					log.WithError(err).Error("turn failed")
					return err
				}
				if _, err := fmt.Fprintln(out, reply); err != nil {
					return err
				}
				log.WithField("messages", conv.Len()).Debug("turn completed")
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "command-r", "chat model")
	cmd.Flags().StringVarP(&system, "system", "s", "", "system message opening the conversation")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.3, "sampling temperature")
	return cmd
}
