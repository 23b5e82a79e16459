package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Equipment is the part of an equipment item the simulator needs.
type Equipment struct {
	ID                  string  `json:"id"`
	EquipmentCode       string  `json:"equipment_code"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	CurrentRunningHours float64 `json:"current_running_hours"`
	Status              string  `json:"status"`
	IsActive            bool    `json:"is_active"`
}

// BulkItem is one equipment entry of a daily submission.
type BulkItem struct {
	EquipmentID string  `json:"equipment_id"`
	DailyHours  float64 `json:"daily_hours"`
	Note        string  `json:"note,omitempty"`
}

// BulkRequest is one day of running hours for a vessel.
type BulkRequest struct {
	VesselID     string     `json:"vessel_id"`
	RecordedDate string     `json:"recorded_date"`
	Records      []BulkItem `json:"records"`
}

// BulkResult is the server's answer to a bulk submission.
type BulkResult struct {
	Recorded int      `json:"recorded"`
	Errors   []string `json:"errors"`
	Date     string   `json:"date"`
}

// usage bounds the daily hours of an equipment category.
type usage struct {
	min, max float64
}

// Typical daily usage at sea. Unknown categories run part time.
var categoryUsage = map[string]usage{
	"Main Engine":         {18, 24},
	"Generator":           {8, 24},
	"Turbocharger":        {18, 24},
	"Boiler":              {4, 16},
	"Pump":                {6, 24},
	"Compressor":          {1, 6},
	"Steering Gear":       {18, 24},
	"Emergency Generator": {0, 1},
	"Purifier":            {12, 24},
	"Crane":               {0, 4},
}

var defaultUsage = usage{0, 12}

// Client talks to the PMS API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return errors.New("login returned no token")
	}
	c.token = resp.Token
	return nil
}

// VesselEquipment lists the equipment of a vessel.
func (c *Client) VesselEquipment(ctx context.Context, vesselID string) ([]Equipment, error) {
	var items []Equipment
	if err := c.do(ctx, http.MethodGet, "/vessels/"+vesselID+"/equipment", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RecordDay submits one day of running hours.
func (c *Client) RecordDay(ctx context.Context, req BulkRequest) (BulkResult, error) {
	var res BulkResult
	err := c.do(ctx, http.MethodPost, "/running-hours/record/bulk", req, &res)
	return res, err
}

// dailyHours draws a day's running hours for category, rounded to a
// tenth of an hour.
func dailyHours(rng *rand.Rand, category string) float64 {
	u, ok := categoryUsage[category]
	if !ok {
		u = defaultUsage
	}
	h := u.min + rng.Float64()*(u.max-u.min)
	h = float64(int(h*10+0.5)) / 10
	if h > 24 {
		h = 24
	}
	return h
}

// buildDay assembles the submission of one day for the active equipment.
func buildDay(rng *rand.Rand, vesselID string, date time.Time, equipment []Equipment) BulkRequest {
	req := BulkRequest{
		VesselID:     vesselID,
		RecordedDate: date.Format(dateLayout),
		Records:      make([]BulkItem, 0, len(equipment)),
	}
	for _, eq := range equipment {
		if !eq.IsActive {
			continue
		}
		req.Records = append(req.Records, BulkItem{
			EquipmentID: eq.ID,
			DailyHours:  dailyHours(rng, eq.Category),
			Note:        "simulated",
		})
	}
	return req
}

// Simulation replays consecutive days of running hours for one vessel.
type Simulation struct {
	Client   *Client
	VesselID string
	Start    time.Time
	Days     int
	Interval time.Duration
	Rand     *rand.Rand
}

// Run submits one bulk record per day and returns the number of records
// the server accepted.
func (s *Simulation) Run(ctx context.Context) (int, error) {
	equipment, err := s.Client.VesselEquipment(ctx, s.VesselID)
	if err != nil {
		return 0, fmt.Errorf("failed to list equipment: %w", err)
	}
	if len(equipment) == 0 {
		return 0, fmt.Errorf("vessel %s has no equipment", s.VesselID)
	}
	log.WithFields(log.Fields{
		"vessel_id": s.VesselID,
		"equipment": len(equipment),
		"days":      s.Days,
	}).Info("Starting running hours simulation")

	total := 0
	for day := 0; day < s.Days; day++ {
		date := s.Start.AddDate(0, 0, day)
		res, err := s.Client.RecordDay(ctx, buildDay(s.Rand, s.VesselID, date, equipment))
		if err != nil {
			log.WithError(err).WithField("date", date.Format(dateLayout)).Error("Failed to record day")
		} else {
			total += res.Recorded
			entry := log.WithFields(log.Fields{"date": res.Date, "recorded": res.Recorded})
			if len(res.Errors) > 0 {
				entry.WithField("errors", res.Errors).Warn("Day recorded with errors")
			} else {
				entry.Info("Day recorded")
			}
		}

		if day == s.Days-1 || s.Interval <= 0 {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			continue
		}
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(s.Interval):
		}
	}
	return total, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		log.WithField(key, v).Warn("Ignoring invalid integer setting")
	}
	return def
}

// startDate reads SIM_START_DATE, defaulting to the day that makes the
// run end yesterday.
func startDate(now time.Time, days int) time.Time {
	if v := os.Getenv("SIM_START_DATE"); v != "" {
		if d, err := time.ParseInLocation(dateLayout, v, time.UTC); err == nil {
			return d
		}
		log.WithField("SIM_START_DATE", v).Warn("Ignoring invalid start date")
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}
	vesselID := os.Getenv("SIM_VESSEL_ID")
	if vesselID == "" {
		log.Fatal("SIM_VESSEL_ID is required")
	}
	days := envInt("SIM_DAYS", 30)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := NewClient(apiURL, os.Getenv("SIM_AUTH_TOKEN"))
	if client.token == "" {
		username, password := os.Getenv("SIM_USERNAME"), os.Getenv("SIM_PASSWORD")
		if username == "" || password == "" {
			log.Fatal("Set SIM_AUTH_TOKEN or SIM_USERNAME and SIM_PASSWORD")
		}
		if err := client.Login(ctx, username, password); err != nil {
			log.WithError(err).Fatal("Login failed")
		}
	}

	sim := &Simulation{
		Client:   client,
		VesselID: vesselID,
		Start:    startDate(time.Now(), days),
		Days:     days,
		Interval: time.Duration(envInt("SIM_TICK_SECONDS", 1)) * time.Second,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	recorded, err := sim.Run(ctx)
	if err != nil {
		log.WithError(err).WithField("recorded", recorded).Fatal("Simulation stopped")
	}
	log.WithField("recorded", recorded).Info("Simulation completed")
}
