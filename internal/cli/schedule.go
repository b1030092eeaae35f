package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/coursegen/pkg/generator"
	"github.com/limaJavier/coursegen/pkg/model"
)

// Resolves a state into the components it names, in state order
func scheduleFromState(courses []model.Course, state string) ([]model.Component, error) {
	ids, err := generator.ParsePosition(state)
	if err != nil {
		return nil, err
	} else if len(ids) == 0 {
		return nil, errors.New("a state must be given")
	}

	components := make(map[uint64]model.Component)
	for _, course := range courses {
		for _, component := range course.Components {
			components[component.Id] = component
		}
	}

	schedule := make([]model.Component, 0, len(ids))
	for _, id := range ids {
		component, ok := components[id]
		if !ok {
			return nil, fmt.Errorf("CRN %d does not belong to the given courses", id)
		}
		schedule = append(schedule, component)
	}
	return schedule, nil
}

// Loads courses and resolves the state against them, checking the schedule is complete and conflict-free
func (s *session) verifiedSchedule(cmd *cobra.Command, env *environment, courseNames []string, state string) ([]model.Component, bool, error) {
	courses, err := env.courses(cmd.Context(), courseNames)
	if err != nil {
		return nil, false, fmt.Errorf("courses: %w", err)
	}
	schedule, err := scheduleFromState(courses, state)
	if err != nil {
		return nil, false, fmt.Errorf("state: %w", err)
	}
	gen, err := env.generator()
	if err != nil {
		return nil, false, err
	}

	if !gen.Verify(courses, schedule) {
		env.logger.Warn("schedule failed verification", zap.String("state", state))
		return schedule, false, nil
	}
	return schedule, true, nil
}

func (s *session) verifyCommand() *cobra.Command {
	var (
		courseNames []string
		state       string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a state names a complete conflict-free schedule",
		Long:  "Check that --state picks one section per lecture, lab and tutorial slot of --courses, in order, with no overlapping meetings. Exits with 10 when it does and 15 otherwise.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := s.setup()
			if err != nil {
				return err
			}
			defer env.close()

			_, ok, err := s.verifiedSchedule(cmd, env, courseNames, state)
			if err != nil {
				return err
			}

			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				s.exitCode = ExitVerifyFailed
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			s.exitCode = ExitFound
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&courseNames, "courses", nil, `Comma separated courses, e.g. "CSC 111,MATH 100"`)
	cmd.Flags().StringVar(&state, "state", "", "State to check, e.g. 20654_20664_21144")
	cmd.MarkFlagRequired("courses")
	cmd.MarkFlagRequired("state")
	return cmd
}

func (s *session) exportCommand() *cobra.Command {
	var (
		courseNames []string
		state       string
		outFile     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the schedule named by a state as an iCalendar file",
		Long:  "Export the schedule named by --state as weekly recurring events in the configured timezone. Exits with 15 when the state is not a valid schedule.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := s.setup()
			if err != nil {
				return err
			}
			defer env.close()

			schedule, ok, err := s.verifiedSchedule(cmd, env, courseNames, state)
			if err != nil {
				return err
			} else if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "state is not a valid schedule of the given courses")
				s.exitCode = ExitVerifyFailed
				return nil
			}

			err = withOutput(outFile, cmd.OutOrStdout(), func(out io.Writer) error {
				return renderCalendar(out, schedule, env)
			})
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			s.exitCode = ExitFound
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&courseNames, "courses", nil, `Comma separated courses, e.g. "CSC 111,MATH 100"`)
	cmd.Flags().StringVar(&state, "state", "", "State to export, e.g. 20654_20664_21144")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the calendar to this file instead of the standard output")
	cmd.MarkFlagRequired("courses")
	cmd.MarkFlagRequired("state")
	return cmd
}
