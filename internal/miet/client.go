// Package miet is the client for the university timetable service. The
// service guards its JSON endpoint behind a short-lived "wl" cookie that it
// hands out to any plain GET; the client replays that handshake before the
// first real request.
package miet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	appLog "mietcal/internal/log"
	"mietcal/internal/schedule"
)

// DefaultURL is the timetable data endpoint.
const DefaultURL = "https://miet.ru/schedule/data"

// ErrNoCookie is returned when the service response carries no "wl" cookie
// to scrape. Usually means the anti-bot scheme changed; a cookie copied from
// a browser session can be configured as a workaround.
var ErrNoCookie = errors.New("miet: schedule service did not hand out a wl cookie")

var cookiePattern = regexp.MustCompile(`wl=[a-f0-9]+;`)

// Client fetches raw timetables and translates them into schedule entries.
type Client struct {
	url    string
	cookie string
	client *http.Client
}

// NewClient creates a Client for the given endpoint. An empty url selects
// DefaultURL; an empty cookie is acquired lazily on first use.
func NewClient(url, cookie string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:    url,
		cookie: cookie,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// scheduleResponse mirrors the service's JSON envelope. Field names are the
// service's own, hence the capitalized keys.
type scheduleResponse struct {
	Data []rawLesson `json:"Data"`
}

// rawLesson is one record of the raw timetable. Day and Time.Code are
// one-based in the service's numbering.
type rawLesson struct {
	Class struct {
		Name        string `json:"Name"`
		TeacherFull string `json:"TeacherFull"`
	} `json:"Class"`
	DayNumber int `json:"DayNumber"`
	Room      struct {
		Name string `json:"Name"`
	} `json:"Room"`
	Day  int `json:"Day"`
	Time struct {
		Code int `json:"Code"`
	} `json:"Time"`
}

// ByGroup returns every lesson of one group as zero-based schedule entries,
// with class titles passed through the renamer.
func (c *Client) ByGroup(ctx context.Context, group string, rename schedule.Renamer) ([]schedule.Entry, error) {
	lessons, err := c.fetchGroup(ctx, group)
	if err != nil {
		return nil, err
	}

	entries := make([]schedule.Entry, 0, len(lessons))
	for _, l := range lessons {
		entries = append(entries, toEntry(l, rename.Rename(l.Class.Name)))
	}
	return entries, nil
}

// ByEducator walks the given groups sequentially and keeps only the lessons
// taught by the named instructor (exact full-name match). The group name is
// appended to each summary so the instructor can tell audiences apart.
func (c *Client) ByEducator(ctx context.Context, groups []string, educator string, rename schedule.Renamer) ([]schedule.Entry, error) {
	var entries []schedule.Entry
	for _, group := range groups {
		lessons, err := c.fetchGroup(ctx, group)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", group, err)
		}
		for _, l := range lessons {
			if l.Class.TeacherFull != educator {
				continue
			}
			entries = append(entries, toEntry(l, rename.Rename(l.Class.Name)+" "+group))
		}
	}
	return entries, nil
}

// fetchGroup retrieves one group's raw timetable.
func (c *Client) fetchGroup(ctx context.Context, group string) ([]rawLesson, error) {
	if group == "" {
		return nil, errors.New("miet: group name is empty")
	}
	if err := c.ensureCookie(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	q := url.Values{"group": {group}}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Cookie", c.cookie)

	appLog.Info("schedule fetch start", "group", group)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("miet: schedule request for %s: %s", group, resp.Status)
	}

	var parsed scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("miet: decode schedule for %s: %w", group, err)
	}

	appLog.Info("schedule fetch success", "group", group, "lesson_count", len(parsed.Data))
	return parsed.Data, nil
}

// ensureCookie scrapes the anti-bot cookie from a bare GET when none is
// configured. The cookie looks like "wl=abcdef0123456789...;".
func (c *Client) ensureCookie(ctx context.Context) error {
	if c.cookie != "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("miet: cookie handshake: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("miet: cookie handshake: %w", err)
	}

	match := cookiePattern.Find(body)
	if match == nil {
		return ErrNoCookie
	}
	c.cookie = string(match)

	appLog.Debug("acquired wl cookie")
	return nil
}

// toEntry translates a raw one-based service record into a zero-based entry.
func toEntry(l rawLesson, name string) schedule.Entry {
	return schedule.Entry{
		ClassName:  name,
		WeekCode:   l.DayNumber,
		RoomNumber: l.Room.Name,
		WeekDay:    l.Day - 1,
		SlotNumber: l.Time.Code - 1,
		Duration:   1,
	}
}
