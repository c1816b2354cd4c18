package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonSnow1807/student-scheduler/internal/models"
	"github.com/JonSnow1807/student-scheduler/internal/repository"
)

var (
	seedStudents int
	seedRandSeed int64
)

func init() {
	seedCmd.Flags().IntVar(&seedStudents, "students", 500, "number of students to generate")
	seedCmd.Flags().Int64Var(&seedRandSeed, "seed", 1, "random seed for generated data")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Wipe and repopulate the database with sample data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		ctx := context.Background()
		rng := rand.New(rand.NewSource(seedRandSeed))

		for _, stmt := range []string{
			"DELETE FROM assignments",
			"DELETE FROM preferences",
			"DELETE FROM students",
			"DELETE FROM courses",
			"DELETE FROM timeslots",
		} {
			if _, err := e.db.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}

		courses, err := seedCourses(ctx, e, rng)
		if err != nil {
			return err
		}
		if err := seedTimeslots(ctx, e); err != nil {
			return err
		}
		students, err := seedStudentRows(ctx, e)
		if err != nil {
			return err
		}
		prefCount, err := seedPreferences(ctx, e, rng, students, courses)
		if err != nil {
			return err
		}

		e.logr.Sugar().Infow("database seeded",
			"students", len(students),
			"courses", len(courses),
			"preferences", prefCount,
		)
		return nil
	},
}

func seedCourses(ctx context.Context, e *env, rng *rand.Rand) ([]models.Course, error) {
	repo := repository.NewCourseRepository(e.db)

	catalog := []struct {
		code, name, prereq string
	}{
		{"CS101", "Introduction to Computer Science", ""},
		{"CS201", "Data Structures", "CS101"},
		{"CS301", "Algorithms", "CS201"},
		{"MATH101", "Calculus I", ""},
		{"MATH201", "Linear Algebra", "MATH101"},
		{"PHY101", "Physics I", ""},
		{"ENG101", "English Composition", ""},
		{"HIST101", "World History", ""},
		{"BIO101", "Biology I", ""},
		{"CHEM101", "Chemistry I", ""},
	}

	byCode := make(map[string]string, len(catalog))
	courses := make([]models.Course, 0, len(catalog))
	for _, entry := range catalog {
		course := models.Course{
			ID:         uuid.NewString(),
			Code:       entry.code,
			Name:       entry.name,
			Capacity:   30 + rng.Intn(31),
			Instructor: fmt.Sprintf("Dr. %s", entry.code),
		}
		if entry.prereq != "" {
			prereqID := byCode[entry.prereq]
			course.PrerequisiteID = &prereqID
		}
		if err := repo.Create(ctx, &course); err != nil {
			return nil, err
		}
		byCode[course.Code] = course.ID
		courses = append(courses, course)
	}
	return courses, nil
}

func seedTimeslots(ctx context.Context, e *env) error {
	repo := repository.NewTimeSlotRepository(e.db)

	windows := []struct{ start, end int }{
		{8 * 60, 9*60 + 30},
		{10 * 60, 11*60 + 30},
		{13 * 60, 14*60 + 30},
		{15 * 60, 16*60 + 30},
	}
	rooms := []string{"Room 101", "Room 102", "Room 201", "Room 202"}

	for day := 0; day < 5; day++ {
		for _, w := range windows {
			for _, room := range rooms {
				slot := models.TimeSlot{
					Day:         day,
					StartMinute: w.start,
					EndMinute:   w.end,
					Room:        room,
				}
				if err := repo.Create(ctx, &slot); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedStudentRows(ctx context.Context, e *env) ([]models.Student, error) {
	repo := repository.NewStudentRepository(e.db)

	students := make([]models.Student, 0, seedStudents)
	for i := 0; i < seedStudents; i++ {
		student := models.Student{
			Code:     fmt.Sprintf("S%04d", i),
			FullName: fmt.Sprintf("Student %d", i),
			Email:    fmt.Sprintf("student%d@university.edu", i),
		}
		if err := repo.Create(ctx, &student); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, nil
}

func seedPreferences(ctx context.Context, e *env, rng *rand.Rand, students []models.Student, courses []models.Course) (int, error) {
	repo := repository.NewPreferenceRepository(e.db)

	count := 0
	for _, student := range students {
		wanted := 3 + rng.Intn(3)
		picks := rng.Perm(len(courses))[:wanted]
		for priority, idx := range picks {
			pref := models.Preference{
				StudentID: student.ID,
				CourseID:  courses[idx].ID,
				Priority:  priority + 1,
			}
			if err := repo.Upsert(ctx, &pref); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
