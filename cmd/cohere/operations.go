package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zoobzio/cohere"
)

// callFunc is a Client method taking P, used through a method expression.
type callFunc[P any] func(*cohere.Client, context.Context, P, ...cohere.CallOption) (*cohere.Response, error)

// operationCmd builds the subcommand for one operation.
func operationCmd[P any](a *app, use, short string, streaming bool, call callFunc[P]) *cobra.Command {
	var inline, file string
	var stream bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var params P
			if err := readParams(cmd, inline, file, &params); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var opts []cohere.CallOption
			if stream {
				opts = append(opts, cohere.WithHandler(func(chunk []byte) error {
					_, err := out.Write(chunk)
					return err
				}))
			}

			resp, err := call(a.client, cmd.Context(), params, opts...)
			if err != nil {
				a.logger.WithError(err).WithField("command", use).Error("request failed")
				return err
			}
			a.logger.WithFields(logFields(resp)).WithField("command", use).Debug("request completed")
			if stream {
				return nil
			}
			return a.print(out, resp)
		},
	}

	cmd.Flags().StringVarP(&inline, "params", "p", "", "request parameters as a JSON object")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read request parameters from a JSON file, - for stdin")
	if streaming {
		cmd.Flags().BoolVar(&stream, "stream", false, "copy the response body to stdout as it arrives")
	}
	return cmd
}

// operationsCmd lists the operation table.
func operationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List operations with their routing and required fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tVERSION\tPATH\tSTREAMING\tREQUIRED")
			for _, op := range cohere.Operations() {
				var required []string
				for _, f := range op.Fields {
					if f.Required {
						required = append(required, f.Wire)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%t\t%s\n",
					op.Name, op.Version, op.Method(), op.Path, op.Streaming, strings.Join(required, ","))
			}
			return w.Flush()
		},
	}
}

// logFields describes a finished call for the log.
func logFields(resp *cohere.Response) logrus.Fields {
	if resp == nil {
		return logrus.Fields{}
	}
	return logrus.Fields{
		"status":       resp.StatusCode,
		"content_type": resp.ContentType(),
		"bytes":        len(resp.Raw),
	}
}
