package actuate

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU32ToBytes_RoundTripsBigEndian(t *testing.T) {
	buf := u32ToBytes(123456)
	assert.Len(t, buf, 4)
	assert.Equal(t, uint32(123456), binary.BigEndian.Uint32(buf))
}

func TestRegisterAddresses_AreDistinct(t *testing.T) {
	assert.NotEqual(t, RegACChargePowerW, RegDischargeEnabled)
}
