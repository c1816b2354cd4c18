package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JonSnow1807/student-scheduler/internal/models"
	"github.com/JonSnow1807/student-scheduler/internal/service"
	"github.com/JonSnow1807/student-scheduler/pkg/config"
)

type stubStudents struct{ students []models.Student }

func (s *stubStudents) ListAll(context.Context) ([]models.Student, error) { return s.students, nil }

type stubCourses struct{ courses []models.Course }

func (s *stubCourses) ListAll(context.Context) ([]models.Course, error) { return s.courses, nil }

type stubTimeslots struct{ slots []models.TimeSlot }

func (s *stubTimeslots) ListAll(context.Context) ([]models.TimeSlot, error) { return s.slots, nil }

type stubPreferences struct{ prefs []models.Preference }

func (s *stubPreferences) ListAll(context.Context) ([]models.Preference, error) {
	return s.prefs, nil
}

func (s *stubPreferences) DemandByCourse(context.Context) (map[string]int, error) {
	demand := make(map[string]int)
	for _, pref := range s.prefs {
		demand[pref.CourseID]++
	}
	return demand, nil
}

type stubAssignments struct {
	stored map[string]models.AssignmentSet
}

func (s *stubAssignments) ListByTerm(_ context.Context, term string) (models.AssignmentSet, error) {
	return s.stored[term], nil
}

func (s *stubAssignments) ListByStudent(_ context.Context, term, studentID string) (models.AssignmentSet, error) {
	var out models.AssignmentSet
	for _, a := range s.stored[term] {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAssignments) ReplaceForTerm(_ context.Context, term string, assignments models.AssignmentSet) error {
	if s.stored == nil {
		s.stored = make(map[string]models.AssignmentSet)
	}
	s.stored[term] = assignments
	return nil
}

func buildScheduleRouter() (*gin.Engine, *stubAssignments) {
	gin.SetMode(gin.TestMode)

	store := &stubAssignments{}
	svc := service.NewScheduleService(
		&stubStudents{students: []models.Student{{ID: "s1", Code: "STU-001", FullName: "Ava Chen"}}},
		&stubCourses{courses: []models.Course{{ID: "c1", Code: "MATH101", Name: "Calculus I", Capacity: 10}}},
		&stubTimeslots{slots: []models.TimeSlot{{ID: "t1", Day: 0, StartMinute: 540, EndMinute: 600}}},
		&stubPreferences{prefs: []models.Preference{{ID: "p1", StudentID: "s1", CourseID: "c1", Priority: 1}}},
		store,
		nil,
		nil,
		nil,
		nil,
		config.SchedulerConfig{
			Strategy:           config.StrategyGreedy,
			StudentsPerSection: 40,
			MaxSections:        5,
			MaxLoad:            5,
			WeightBase:         11,
			WeightStep:         2,
			UnpreferredPenalty: -2,
			TimeslotStride:     7,
			SolverTimeLimit:    5 * time.Second,
			Seed:               42,
			TopTimeslots:       10,
		},
		zap.NewNop(),
	)
	h := NewScheduleHandler(svc)

	router := gin.New()
	router.POST("/schedule/optimize", h.Optimize)
	router.GET("/schedule/report", h.Report)
	router.GET("/schedule/assignments", h.Assignments)
	router.GET("/schedule/report/export", h.Export)
	return router, store
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestScheduleRoutes(t *testing.T) {
	router, store := buildScheduleRouter()

	t.Run("optimize success", func(t *testing.T) {
		body := bytes.NewBufferString(`{"term":"2026-fall","strategy":"greedy"}`)
		req, _ := http.NewRequest(http.MethodPost, "/schedule/optimize", body)
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"status":"COMPLETE"`)
		require.Len(t, store.stored["2026-fall"], 1)
	})

	t.Run("optimize missing term", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/schedule/optimize", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("report success", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedule/report?term=2026-fall", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"first_choice_rate":100`)
	})

	t.Run("report missing term", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedule/report", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("report unknown term", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedule/report?term=1999-spring", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("assignments by student", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedule/assignments?term=2026-fall&student_id=s1", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"MATH101-01"`)
	})

	t.Run("export csv", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedule/report/export?term=2026-fall&format=csv", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
		require.Contains(t, resp.Body.String(), "MATH101")
	})
}
