package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonSnow1807/student-scheduler/internal/dto"
	"github.com/JonSnow1807/student-scheduler/internal/repository"
	"github.com/JonSnow1807/student-scheduler/internal/scheduler"
	"github.com/JonSnow1807/student-scheduler/internal/service"
)

var (
	optimizeTerm      string
	optimizeStrategy  string
	optimizeTimeLimit int
	optimizeSeed      int64
)

func init() {
	optimizeCmd.Flags().StringVar(&optimizeTerm, "term", "", "term to schedule, e.g. 2026-fall")
	optimizeCmd.Flags().StringVar(&optimizeStrategy, "strategy", "", "cpsat or greedy (default from config)")
	optimizeCmd.Flags().IntVar(&optimizeTimeLimit, "time-limit", 0, "solver time limit in seconds")
	optimizeCmd.Flags().Int64Var(&optimizeSeed, "seed", 0, "override the greedy shuffle seed")
	optimizeCmd.MarkFlagRequired("term") //nolint:errcheck
}

// newScheduleService wires the service the same way the API gateway does,
// minus redis and metrics.
func newScheduleService(e *env) *service.ScheduleService {
	return service.NewScheduleService(
		repository.NewStudentRepository(e.db),
		repository.NewCourseRepository(e.db),
		repository.NewTimeSlotRepository(e.db),
		repository.NewPreferenceRepository(e.db),
		repository.NewAssignmentRepository(e.db),
		scheduler.NewSATSolver(e.logr),
		nil,
		nil,
		nil,
		e.cfg.Scheduler,
		e.logr,
	)
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run a scheduling pass for a term",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		req := dto.OptimizeScheduleRequest{
			Term:             optimizeTerm,
			Strategy:         optimizeStrategy,
			TimeLimitSeconds: optimizeTimeLimit,
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = &optimizeSeed
		}

		resp, err := newScheduleService(e).RunPass(context.Background(), req)
		if err != nil {
			return err
		}

		fmt.Printf("Term:        %s\n", resp.Term)
		fmt.Printf("Strategy:    %s\n", resp.Stats.Strategy)
		fmt.Printf("Status:      %s\n", resp.Stats.Status)
		fmt.Printf("Sections:    %d\n", resp.Sections)
		fmt.Printf("Assignments: %d\n", resp.Stats.AssignmentCount)
		fmt.Printf("Objective:   %d\n", resp.Stats.Objective)
		fmt.Printf("Elapsed:     %s\n", resp.Stats.Elapsed)
		if resp.Report != nil {
			fmt.Printf("Scheduled:   %d/%d students, first choice rate %.1f%%\n",
				resp.Report.StudentsScheduled, resp.Report.TotalStudents, resp.Report.FirstChoiceRate)
		}
		return nil
	},
}
