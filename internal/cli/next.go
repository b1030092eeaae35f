package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/coursegen/pkg/generator"
)

func (s *session) nextCommand() *cobra.Command {
	var (
		courseNames []string
		state       string
		previous    bool
		format      string
		outFile     string
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the schedule that follows a state",
		Long: `Print the conflict-free schedule that follows --state (the first one when no state is given).
With --prev the walk goes backward. Exits with 10 when a schedule is found and 20 when there is none left.`,
		Example: `  coursegen next --courses "CSC 111,MATH 100"
  coursegen next --courses "CSC 111,MATH 100" --state 20654_20664_21144 --prev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if !slices.Contains(formats, format) {
				return fmt.Errorf("invalid format \"%v\": allowed values are %v", format, formats)
			}

			env, err := s.setup()
			if err != nil {
				return err
			}
			defer env.close()

			courses, err := env.courses(cmd.Context(), courseNames)
			if err != nil {
				return fmt.Errorf("courses: %w", err)
			}
			gen, err := env.generator()
			if err != nil {
				return err
			}

			page, err := generator.Navigate(gen, courses, state, previous)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			} else if page == nil {
				env.logger.Info("no schedule left", zap.String("state", state), zap.Bool("previous", previous))
				fmt.Fprintln(cmd.ErrOrStderr(), "no schedule left")
				s.exitCode = ExitExhausted
				return nil
			}

			err = withOutput(outFile, cmd.OutOrStdout(), func(out io.Writer) error {
				return render(out, format, page, env)
			})
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			s.exitCode = ExitFound
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&courseNames, "courses", nil, `Comma separated courses, e.g. "CSC 111,MATH 100"`)
	cmd.Flags().StringVar(&state, "state", "", "State to continue from, e.g. 20654_20664_21144 (empty starts over)")
	cmd.Flags().BoolVar(&previous, "prev", false, "Walk backward")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, text or ics")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the output to this file instead of the standard output")
	cmd.MarkFlagRequired("courses")
	return cmd
}
