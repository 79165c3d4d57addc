package classroom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/trihoang/studydesk/internal/logger"
)

// DefaultBaseURL is the production assignment feed
const DefaultBaseURL = "https://classroom.googleapis.com/v1"

// Course is an active course on the assignment feed
type Course struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Section       string `json:"section,omitempty"`
	CourseState   string `json:"courseState"`
	AlternateLink string `json:"alternateLink,omitempty"`
}

// DueDate is the feed's calendar-date structure
type DueDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// DueTime is the feed's optional time-of-day structure
type DueTime struct {
	Hours   int `json:"hours,omitempty"`
	Minutes int `json:"minutes,omitempty"`
}

// CourseWork is a published assignment within a course
type CourseWork struct {
	ID            string   `json:"id"`
	CourseID      string   `json:"courseId"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	State         string   `json:"state"`
	AlternateLink string   `json:"alternateLink,omitempty"`
	DueDate       *DueDate `json:"dueDate,omitempty"`
	DueTime       *DueTime `json:"dueTime,omitempty"`
	MaxPoints     float64  `json:"maxPoints,omitempty"`
	WorkType      string   `json:"workType,omitempty"`
	CreationTime  string   `json:"creationTime,omitempty"`
	UpdateTime    string   `json:"updateTime,omitempty"`
}

// CourseData pairs a course with its published work
type CourseData struct {
	Course Course
	Work   []CourseWork
}

// APIError is a non-success response from the feed
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("classroom api error (%d): %s", e.StatusCode, e.Message)
}

// Client is a read-only client for the assignment feed
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a feed client. An empty baseURL selects production.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, endpoint, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach classroom feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Best-effort decode of the JSON error body
		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
			msg = body.Error.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// ListActiveCourses returns the caller's active courses
func (c *Client) ListActiveCourses(ctx context.Context, token string) ([]Course, error) {
	var body struct {
		Courses []Course `json:"courses"`
	}
	if err := c.get(ctx, "/courses?courseStates=ACTIVE&pageSize=30", token, &body); err != nil {
		return nil, err
	}
	return body.Courses, nil
}

// ListPublishedWork returns a course's published assignments, due date ascending
func (c *Client) ListPublishedWork(ctx context.Context, courseID, token string) ([]CourseWork, error) {
	endpoint := fmt.Sprintf("/courses/%s/courseWork?courseWorkStates=PUBLISHED&pageSize=50&orderBy=%s",
		url.PathEscape(courseID), url.QueryEscape("dueDate asc"))
	var body struct {
		CourseWork []CourseWork `json:"courseWork"`
	}
	if err := c.get(ctx, endpoint, token, &body); err != nil {
		return nil, err
	}
	return body.CourseWork, nil
}

// FetchAll lists active courses, then fetches every course's work
// concurrently. A course whose fetch fails contributes an empty work slice
// and a warning; it never aborts the other courses.
func (c *Client) FetchAll(ctx context.Context, token string) ([]CourseData, error) {
	courses, err := c.ListActiveCourses(ctx, token)
	if err != nil {
		return nil, err
	}

	out := make([]CourseData, len(courses))
	var wg sync.WaitGroup
	for i, course := range courses {
		out[i].Course = course

		wg.Add(1)
		go func(i int, course Course) {
			defer wg.Done()
			work, err := c.ListPublishedWork(ctx, course.ID, token)
			if err != nil {
				logger.Warn("failed to fetch coursework",
					logger.F("course", course.Name), logger.F("error", err))
				return
			}
			out[i].Work = work
		}(i, course)
	}
	wg.Wait()

	return out, nil
}

// FormatDueDate normalizes the feed's due-date structure into a plain
// YYYY-MM-DD string. No due date normalizes to the empty string.
func FormatDueDate(d *DueDate) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
