package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := ProgressPayload{Generation: 3, Generations: 400, BestFitness: 12.5}

	msg, err := NewEnvelope(TypeProgress, payload)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeProgress, env.Type)

	var parsed ProgressPayload
	require.NoError(t, json.Unmarshal(env.Payload, &parsed))
	assert.Equal(t, 3, parsed.Generation)
	assert.Equal(t, 400, parsed.Generations)
	assert.InDelta(t, 12.5, parsed.BestFitness, 0.001)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeError, nil)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeError, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "optimize:progress", TypeProgress)
	assert.Equal(t, "optimize:result", TypeResult)
	assert.Equal(t, "optimize:error", TypeError)
}
