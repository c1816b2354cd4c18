package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	reportTerm string
	reportJSON bool
)

func init() {
	reportCmd.Flags().StringVar(&reportTerm, "term", "", "term to report on, e.g. 2026-fall")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the full report as JSON")
	reportCmd.MarkFlagRequired("term") //nolint:errcheck
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the schedule quality report for a term",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		report, _, err := newScheduleService(e).Report(context.Background(), reportTerm)
		if err != nil {
			return err
		}

		if reportJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Term:              %s\n", report.Term)
		fmt.Printf("Students:          %d scheduled of %d\n", report.StudentsScheduled, report.TotalStudents)
		fmt.Printf("Assignments:       %d\n", report.TotalAssignments)
		fmt.Printf("Average load:      %.1f\n", report.AverageLoad)
		fmt.Printf("First choice rate: %.1f%%\n", report.FirstChoiceRate)

		priorities := make([]int, 0, len(report.PrioritySatisfaction))
		for p := range report.PrioritySatisfaction {
			priorities = append(priorities, p)
		}
		sort.Ints(priorities)
		if len(priorities) > 0 {
			fmt.Println("\nPriority satisfaction:")
			for _, p := range priorities {
				stat := report.PrioritySatisfaction[p]
				fmt.Printf("  priority %d: %d/%d (%.1f%%)\n", p, stat.Met, stat.Total, stat.Rate)
			}
		}

		if len(report.Courses) > 0 {
			fmt.Println("\nCourse utilisation:")
			for _, course := range report.Courses {
				fmt.Printf("  %-10s %3d/%3d seats (%.1f%%), demand %d\n",
					course.Code, course.Enrolled, course.Capacity, course.Utilization, course.Demand)
			}
		}

		fmt.Println("\nOutcomes:")
		fmt.Printf("  perfect %d, good %d, satisfactory %d, poor %d, unscheduled %d\n",
			report.Outcomes.Perfect, report.Outcomes.Good, report.Outcomes.Satisfactory,
			report.Outcomes.Poor, report.Outcomes.Unscheduled)
		return nil
	},
}
