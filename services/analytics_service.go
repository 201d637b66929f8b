// services/analytics_service.go - Read-only aggregate views over team data
package services

import (
	"fmt"

	"hackportal/models"

	"gorm.io/gorm"
)

// Event-day window for the hourly timeline, inclusive.
const (
	timelineStartHour = 8
	timelineEndHour   = 20
)

const topColleges = 10

type TimelinePoint struct {
	Time     string `json:"time"`
	Checkins int    `json:"checkins"`
}

type CollegeStat struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	CheckedIn int    `json:"checkedIn"`
}

type TrackStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type AnalyticsReport struct {
	Timeline []TimelinePoint `json:"timeline"`
	Colleges []CollegeStat   `json:"colleges"`
	Tracks   []TrackStat     `json:"tracks"`
}

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Report recomputes the three derived views on demand.
func (s *AnalyticsService) Report() (*AnalyticsReport, error) {
	timeline, err := s.timeline()
	if err != nil {
		return nil, err
	}

	colleges, err := s.colleges()
	if err != nil {
		return nil, err
	}

	tracks, err := s.tracks()
	if err != nil {
		return nil, err
	}

	return &AnalyticsReport{Timeline: timeline, Colleges: colleges, Tracks: tracks}, nil
}

// timeline buckets gate check-ins by hour of day. Bucketing happens in Go so
// the query stays portable across Postgres and the sqlite test database.
func (s *AnalyticsService) timeline() ([]TimelinePoint, error) {
	var teams []models.Team
	if err := s.db.
		Where("gate_check_in = ? AND gate_check_in_time IS NOT NULL", true).
		Find(&teams).Error; err != nil {
		return nil, err
	}

	counts := map[int]int{}
	for _, t := range teams {
		counts[t.GateCheckInTime.Hour()]++
	}

	points := make([]TimelinePoint, 0, timelineEndHour-timelineStartHour+1)
	for h := timelineStartHour; h <= timelineEndHour; h++ {
		points = append(points, TimelinePoint{
			Time:     fmt.Sprintf("%d:00", h),
			Checkins: counts[h],
		})
	}
	return points, nil
}

func (s *AnalyticsService) colleges() ([]CollegeStat, error) {
	var stats []CollegeStat
	err := s.db.Model(&models.Team{}).
		Select("college AS name, COUNT(*) AS total, SUM(CASE WHEN gate_check_in THEN 1 ELSE 0 END) AS checked_in").
		Group("college").
		Order("total DESC").
		Limit(topColleges).
		Scan(&stats).Error
	return stats, err
}

func (s *AnalyticsService) tracks() ([]TrackStat, error) {
	var stats []TrackStat
	err := s.db.Model(&models.Team{}).
		Select("track AS name, COUNT(*) AS count").
		Group("track").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	for i := range stats {
		if stats[i].Name == "" {
			stats[i].Name = "Unknown"
		}
	}
	return stats, nil
}
