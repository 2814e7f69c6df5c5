package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplanner/internal/model"
)

func TestLoadSchedule_DecodesBatterySchedule(t *testing.T) {
	sched := model.Schedule{
		Batteries: map[string][]model.BatteryHourSchedule{
			"b1": {{Hour: 0, ACChargePowerW: 500, DischargeAllowed: false}},
		},
		Appliances: map[string]int{"dishwasher": 14},
	}
	data, err := json.Marshal(sched)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schedule.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := loadSchedule(path)
	require.NoError(t, err)
	assert.Equal(t, sched.Batteries["b1"], got.Batteries["b1"])
}

func TestLoadSchedule_ErrorsOnMissingFile(t *testing.T) {
	_, err := loadSchedule(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
