package services

import (
	"testing"
	"time"

	"hackportal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCheckedInTeam(t *testing.T, db *gorm.DB, teamID, college, track string, hour int) {
	t.Helper()

	at := time.Date(2026, 2, 14, hour, 30, 0, 0, time.Local)
	team := &models.Team{
		TeamID:          teamID,
		Name:            "Team " + teamID,
		College:         college,
		Track:           track,
		Token:           teamID + "-token",
		GateCheckIn:     true,
		GateCheckInTime: &at,
	}
	require.NoError(t, db.Create(team).Error)
}

func TestTimelineZeroFill(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	seedCheckedInTeam(t, db, "DX-001", "Tech U", "AI", 9)
	seedCheckedInTeam(t, db, "DX-002", "Tech U", "AI", 9)
	seedCheckedInTeam(t, db, "DX-003", "State College", "Web", 14)
	mustCreateTeam(t, db, "DX-004", "A") // not checked in

	report, err := svc.Report()
	require.NoError(t, err)

	// one point per hour of the event window, 8 through 20
	require.Len(t, report.Timeline, 13)
	assert.Equal(t, "8:00", report.Timeline[0].Time)
	assert.Equal(t, "20:00", report.Timeline[12].Time)

	total := 0
	byHour := map[string]int{}
	for _, p := range report.Timeline {
		total += p.Checkins
		byHour[p.Time] = p.Checkins
	}

	assert.Equal(t, 3, total, "points sum to the number of gate check-ins")
	assert.Equal(t, 2, byHour["9:00"])
	assert.Equal(t, 1, byHour["14:00"])
	assert.Equal(t, 0, byHour["8:00"], "empty hours are zero-filled")
}

func TestCollegeStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	seedCheckedInTeam(t, db, "DX-001", "Tech U", "AI", 10)
	seedCheckedInTeam(t, db, "DX-002", "Tech U", "AI", 11)
	mustCreateTeam(t, db, "DX-003", "A") // Tech U fixture, not checked in
	seedCheckedInTeam(t, db, "DX-004", "State College", "Web", 12)

	report, err := svc.Report()
	require.NoError(t, err)
	require.Len(t, report.Colleges, 2)

	// sorted by total, descending
	assert.Equal(t, "Tech U", report.Colleges[0].Name)
	assert.Equal(t, 3, report.Colleges[0].Total)
	assert.Equal(t, 2, report.Colleges[0].CheckedIn)

	assert.Equal(t, "State College", report.Colleges[1].Name)
	assert.Equal(t, 1, report.Colleges[1].Total)
	assert.Equal(t, 1, report.Colleges[1].CheckedIn)
}

func TestTrackStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	seedCheckedInTeam(t, db, "DX-001", "Tech U", "AI", 10)
	seedCheckedInTeam(t, db, "DX-002", "Tech U", "AI", 11)
	mustCreateTeam(t, db, "DX-003", "A") // no track set

	report, err := svc.Report()
	require.NoError(t, err)
	require.Len(t, report.Tracks, 2)

	counts := map[string]int{}
	for _, tr := range report.Tracks {
		counts[tr.Name] = tr.Count
	}
	assert.Equal(t, 2, counts["AI"])
	assert.Equal(t, 1, counts["Unknown"], "empty track is bucketed as Unknown")
}

func TestReportOnEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	report, err := svc.Report()
	require.NoError(t, err)

	require.Len(t, report.Timeline, 13)
	for _, p := range report.Timeline {
		assert.Zero(t, p.Checkins)
	}
	assert.Empty(t, report.Colleges)
	assert.Empty(t, report.Tracks)
}
