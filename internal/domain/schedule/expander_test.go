package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoster = []StaffInfo{
	{ID: 1, Name: "Ava", Color: "#f28b82"},
	{ID: 2, Name: "Maya", Color: "#aecbfa"},
}

func TestExpand(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	svc := ServiceInfo{ID: 10, DurationMin: 60, EligibleStaff: []uint{1, 2}}

	tests := []struct {
		name         string
		svc          ServiceInfo
		windows      []RawWindow
		horizonStart time.Time
		wantCount    int
	}{
		{
			name:         "three hour window yields three hourly slots",
			svc:          svc,
			windows:      []RawWindow{{StaffID: 1, Start: base, End: base.Add(3 * time.Hour)}},
			horizonStart: base,
			wantCount:    3,
		},
		{
			name:         "window shorter than duration yields nothing",
			svc:          svc,
			windows:      []RawWindow{{StaffID: 1, Start: base, End: base.Add(30 * time.Minute)}},
			horizonStart: base,
			wantCount:    0,
		},
		{
			name:         "slots before horizon start are dropped",
			svc:          svc,
			windows:      []RawWindow{{StaffID: 1, Start: base, End: base.Add(3 * time.Hour)}},
			horizonStart: base.Add(90 * time.Minute),
			wantCount:    1,
		},
		{
			name:         "ineligible staff produce no slots",
			svc:          ServiceInfo{ID: 10, DurationMin: 60, EligibleStaff: []uint{2}},
			windows:      []RawWindow{{StaffID: 1, Start: base, End: base.Add(3 * time.Hour)}},
			horizonStart: base,
			wantCount:    0,
		},
		{
			name:         "staff missing from roster produce no slots",
			svc:          ServiceInfo{ID: 10, DurationMin: 60, EligibleStaff: []uint{7}},
			windows:      []RawWindow{{StaffID: 7, Start: base, End: base.Add(3 * time.Hour)}},
			horizonStart: base,
			wantCount:    0,
		},
		{
			name: "windows from several staff are all expanded",
			svc:  svc,
			windows: []RawWindow{
				{StaffID: 1, Start: base, End: base.Add(2 * time.Hour)},
				{StaffID: 2, Start: base, End: base.Add(time.Hour)},
			},
			horizonStart: base,
			wantCount:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Expand(tt.svc, tt.windows, testRoster, "UTC", tt.horizonStart)
			assert.Len(t, slots, tt.wantCount)

			for _, s := range slots {
				// every slot lasts exactly the service duration
				assert.Equal(t, time.Duration(tt.svc.DurationMin)*time.Minute, s.End.Sub(s.Start))
				assert.False(t, s.Start.Before(tt.horizonStart))
				assert.Equal(t, tt.svc.ID, s.ServiceID)
			}
		})
	}
}

func TestExpand_StaffNameFromRoster(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := ServiceInfo{ID: 10, DurationMin: 30, EligibleStaff: []uint{2}}

	slots := Expand(svc, []RawWindow{{StaffID: 2, Start: base, End: base.Add(time.Hour)}}, testRoster, "UTC", base)

	require.Len(t, slots, 2)
	assert.Equal(t, "Maya", slots[0].StaffName)
}

func TestExpand_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := ServiceInfo{ID: 10, DurationMin: 45, EligibleStaff: []uint{1}}
	windows := []RawWindow{{StaffID: 1, Start: base, End: base.Add(4 * time.Hour)}}

	first := Expand(svc, windows, testRoster, "America/New_York", base)
	second := Expand(svc, windows, testRoster, "America/New_York", base)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].Start.Equal(second[i].Start))
	}
}

func TestExpand_ZeroDuration(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := ServiceInfo{ID: 10, DurationMin: 0, EligibleStaff: []uint{1}}

	slots := Expand(svc, []RawWindow{{StaffID: 1, Start: base, End: base.Add(time.Hour)}}, testRoster, "UTC", base)
	assert.Empty(t, slots)
}

func TestFilterByStaff(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := ServiceInfo{ID: 10, DurationMin: 60, EligibleStaff: []uint{1, 2}}
	windows := []RawWindow{
		{StaffID: 1, Start: base, End: base.Add(2 * time.Hour)},
		{StaffID: 2, Start: base, End: base.Add(2 * time.Hour)},
	}

	slots := Expand(svc, windows, testRoster, "UTC", base)
	require.Len(t, slots, 4)

	onlyMaya := FilterByStaff(slots, 2)
	assert.Len(t, onlyMaya, 2)
	for _, s := range onlyMaya {
		assert.Equal(t, uint(2), s.StaffID)
	}

	// zero means any staff
	assert.Len(t, FilterByStaff(slots, 0), 4)
}
