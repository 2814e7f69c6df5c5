// Package actuate applies a decoded schedule to real inverter hardware over
// Modbus, the one piece of the planner that leaves the simulated world and
// touches a physical device. Adapted from devskill-org-miners-scheduler's
// sigenergy.SigenModbusClient: same TCP/RTU handler setup and
// Read/WriteRegisters idiom, narrowed to the two registers this planner
// actually needs to drive (AC-charge power setpoint, discharge enable).
package actuate

import (
	"encoding/binary"
	"time"

	"github.com/goburrow/modbus"

	"energyplanner/internal/apperr"
	"energyplanner/internal/model"
)

// Register addresses for the charge-power setpoint and discharge-enable
// holding registers on the target inverter. These are placeholders for the specific
// hardware's Modbus map, mirroring how the teacher's sigenergy package
// hardcodes its own vendor's register numbers.
const (
	RegACChargePowerW   = 40032
	RegDischargeEnabled = 40500
)

// InverterClient drives one physical inverter over Modbus TCP or RTU.
type InverterClient struct {
	client  modbus.Client
	handler interface{ Close() error }
	slaveID byte
}

// DialTCP connects to an inverter reachable at address (host:port), mirroring
// the teacher's NewTCPClient: NewTCPClientHandler, set SlaveId/Timeout,
// Connect.
func DialTCP(address string, slaveID byte) (*InverterClient, error) {
	handler := modbus.NewTCPClientHandler(address)
	handler.SlaveId = slaveID
	handler.Timeout = 2 * time.Second
	if err := handler.Connect(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "modbus tcp connect", err)
	}
	return &InverterClient{client: modbus.NewClient(handler), handler: handler, slaveID: slaveID}, nil
}

// DialRTU connects to an inverter over a serial Modbus RTU link.
func DialRTU(device string, baudRate int, slaveID byte) (*InverterClient, error) {
	handler := modbus.NewRTUClientHandler(device)
	handler.BaudRate = baudRate
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = slaveID
	handler.Timeout = 2 * time.Second
	if err := handler.Connect(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "modbus rtu connect", err)
	}
	return &InverterClient{client: modbus.NewClient(handler), handler: handler, slaveID: slaveID}, nil
}

// Close releases the underlying serial or TCP connection.
func (c *InverterClient) Close() error {
	return c.handler.Close()
}

// ApplyHour pushes one hour's decoded decision for a single battery to its
// coupled inverter: the AC-charge power setpoint in watts, and whether
// discharge is permitted this hour.
func (c *InverterClient) ApplyHour(h model.BatteryHourSchedule) error {
	value := uint32(h.ACChargePowerW)
	if _, err := c.client.WriteMultipleRegisters(RegACChargePowerW, 2, u32ToBytes(value)); err != nil {
		return apperr.Wrap(apperr.Internal, "write ac charge power setpoint", err)
	}

	var enable uint16
	if h.DischargeAllowed {
		enable = 1
	}
	if _, err := c.client.WriteSingleRegister(RegDischargeEnabled, enable); err != nil {
		return apperr.Wrap(apperr.Internal, "write discharge enable", err)
	}
	return nil
}

// ReadSoCPct reads the inverter's reported battery state of charge in
// percent from an input register, mirroring the teacher's ESSSOC scaling
// (raw register holds tenths of a percent).
func (c *InverterClient) ReadSoCPct(socRegister uint16) (float64, error) {
	data, err := c.client.ReadInputRegisters(socRegister, 1)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "read soc register", err)
	}
	return float64(binary.BigEndian.Uint16(data)) / 10.0, nil
}

func u32ToBytes(val uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, val)
	return buf
}
