// Command inverter-apply reads a decoded battery schedule (the "schedule"
// field of an OptimizeResponse, as written by cmd/planner or returned by
// cmd/server's /optimize) and pushes one battery's hourly decisions to a
// real inverter over Modbus via internal/actuate. Grounded on
// internal/publish's one-shot "read a schedule, push it, done" shape, with
// the MQTT broker swapped for a Modbus connection.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"energyplanner/internal/actuate"
	"energyplanner/internal/model"
)

func main() {
	scheduleFlag := flag.String("schedule", "", "path to a JSON file holding a model.Schedule")
	batteryFlag := flag.String("battery", "", "battery device_id whose schedule to apply")
	addrFlag := flag.String("tcp", "", "inverter Modbus TCP address, host:port (mutually exclusive with -rtu)")
	rtuFlag := flag.String("rtu", "", "inverter Modbus RTU serial device (mutually exclusive with -tcp)")
	baudFlag := flag.Int("baud", 9600, "RTU baud rate")
	slaveFlag := flag.Int("slave", 1, "Modbus slave ID")
	waitFlag := flag.Bool("wait-for-hour", false, "block until each hour's wall-clock time before applying it, instead of applying the whole schedule immediately")
	flag.Parse()

	if *scheduleFlag == "" || *batteryFlag == "" {
		log.Fatal("-schedule and -battery are required")
	}
	if (*addrFlag == "") == (*rtuFlag == "") {
		log.Fatal("exactly one of -tcp or -rtu is required")
	}

	sched, err := loadSchedule(*scheduleFlag)
	if err != nil {
		log.Fatalf("loading schedule: %v", err)
	}
	hours, ok := sched.Batteries[*batteryFlag]
	if !ok {
		log.Fatalf("schedule has no battery %q", *batteryFlag)
	}

	client, err := dial(*addrFlag, *rtuFlag, *baudFlag, byte(*slaveFlag))
	if err != nil {
		log.Fatalf("connecting to inverter: %v", err)
	}
	defer client.Close()

	for _, h := range hours {
		if *waitFlag {
			waitForHour(h.Hour)
		}
		if err := client.ApplyHour(h); err != nil {
			log.Fatalf("applying hour %d: %v", h.Hour, err)
		}
		log.Printf("applied hour %d: ac_charge=%.0fW discharge_allowed=%v", h.Hour, h.ACChargePowerW, h.DischargeAllowed)
	}
}

func dial(tcpAddr, rtuDevice string, baud int, slaveID byte) (*actuate.InverterClient, error) {
	if tcpAddr != "" {
		return actuate.DialTCP(tcpAddr, slaveID)
	}
	return actuate.DialRTU(rtuDevice, baud, slaveID)
}

func loadSchedule(path string) (model.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Schedule{}, err
	}
	var sched model.Schedule
	if err := json.Unmarshal(data, &sched); err != nil {
		return model.Schedule{}, fmt.Errorf("decoding schedule: %w", err)
	}
	return sched, nil
}

// waitForHour blocks until the wall clock reaches the next occurrence of
// hour (0-23) in local time, so a schedule produced ahead of time can be
// applied hour-by-hour as the day unfolds rather than all at once.
func waitForHour(hour int) {
	now := time.Now()
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if target.Before(now) {
		target = target.Add(24 * time.Hour)
	}
	time.Sleep(time.Until(target))
}
