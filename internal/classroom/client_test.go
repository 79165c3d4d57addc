package classroom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "Request had invalid authentication credentials."},
			})
			return
		}
		if r.URL.Query().Get("courseStates") != "ACTIVE" {
			t.Errorf("courseStates = %s, want ACTIVE", r.URL.Query().Get("courseStates"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"courses": []Course{
				{ID: "c1", Name: "Math 101", CourseState: "ACTIVE"},
				{ID: "c2", Name: "History", CourseState: "ACTIVE"},
			},
		})
	})

	mux.HandleFunc("/courses/c1/courseWork", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("courseWorkStates") != "PUBLISHED" {
			t.Errorf("courseWorkStates = %s, want PUBLISHED", r.URL.Query().Get("courseWorkStates"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"courseWork": []CourseWork{
				{ID: "w1", CourseID: "c1", Title: "Problem set", State: "PUBLISHED",
					DueDate: &DueDate{Year: 2026, Month: 9, Day: 15}},
			},
		})
	})

	mux.HandleFunc("/courses/c2/courseWork", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "The caller does not have permission"},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListActiveCourses(t *testing.T) {
	srv := feedServer(t)
	c := NewClient(srv.URL)

	courses, err := c.ListActiveCourses(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListActiveCourses failed: %v", err)
	}
	if len(courses) != 2 || courses[0].ID != "c1" || courses[1].Name != "History" {
		t.Errorf("courses = %v", courses)
	}
}

func TestListActiveCoursesAuthError(t *testing.T) {
	srv := feedServer(t)
	c := NewClient(srv.URL)

	_, err := c.ListActiveCourses(context.Background(), "bad")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %T (%v), want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Request had invalid authentication credentials." {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestListPublishedWork(t *testing.T) {
	srv := feedServer(t)
	c := NewClient(srv.URL)

	work, err := c.ListPublishedWork(context.Background(), "c1", "tok")
	if err != nil {
		t.Fatalf("ListPublishedWork failed: %v", err)
	}
	if len(work) != 1 || work[0].Title != "Problem set" {
		t.Errorf("work = %v", work)
	}
}

func TestFetchAllIsolatesCourseFailures(t *testing.T) {
	srv := feedServer(t)
	c := NewClient(srv.URL)

	data, err := c.FetchAll(context.Background(), "tok")
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("courses = %d, want 2", len(data))
	}

	byID := map[string]CourseData{}
	for _, cd := range data {
		byID[cd.Course.ID] = cd
	}
	if len(byID["c1"].Work) != 1 {
		t.Errorf("c1 work = %v, want the problem set", byID["c1"].Work)
	}
	// c2's coursework fetch fails; the course still appears, with no work.
	if len(byID["c2"].Work) != 0 {
		t.Errorf("c2 work = %v, want empty", byID["c2"].Work)
	}
}

func TestFetchAllCourseListFailureAborts(t *testing.T) {
	srv := feedServer(t)
	c := NewClient(srv.URL)

	if _, err := c.FetchAll(context.Background(), "bad"); err == nil {
		t.Fatal("expected error when the course list itself fails")
	}
}

func TestFormatDueDate(t *testing.T) {
	if got := FormatDueDate(nil); got != "" {
		t.Errorf("nil due date = %q, want empty", got)
	}
	if got := FormatDueDate(&DueDate{Year: 2026, Month: 9, Day: 5}); got != "2026-09-05" {
		t.Errorf("due date = %q, want 2026-09-05", got)
	}
}
