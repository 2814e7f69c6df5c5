package ws

import (
	"log"

	"energyplanner/internal/model"
)

// Bridge broadcasts one optimize() run's progress and final outcome to a
// Hub, adapted from the teacher's simulator.Callback bridge: there the
// engine pushed sim ticks to connected clients, here ga.Run pushes
// generation progress.
type Bridge struct {
	hub         *Hub
	generations int
}

func NewBridge(hub *Hub, generations int) *Bridge {
	return &Bridge{hub: hub, generations: generations}
}

// OnProgress is passed as a ga.ProgressFunc to ga.RunWithProgress.
func (b *Bridge) OnProgress(generation int, bestFitness float64) {
	msg, err := NewEnvelope(TypeProgress, ProgressPayload{
		Generation:  generation,
		Generations: b.generations,
		BestFitness: bestFitness,
	})
	if err != nil {
		log.Printf("error marshaling progress: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}

// OnResult broadcasts the final response once a run completes.
func (b *Bridge) OnResult(resp model.OptimizeResponse) {
	msg, err := NewEnvelope(TypeResult, ResultPayload{Result: resp})
	if err != nil {
		log.Printf("error marshaling result: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}

// OnError broadcasts a run failure.
func (b *Bridge) OnError(err error) {
	msg, marshalErr := NewEnvelope(TypeError, ErrorPayload{Message: err.Error()})
	if marshalErr != nil {
		log.Printf("error marshaling error payload: %v", marshalErr)
		return
	}
	b.hub.Broadcast(msg)
}
