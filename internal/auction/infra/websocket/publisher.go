package websocket

import (
	"encoding/json"

	"github.com/agribid/auction-engine/internal/auction/application"
	"github.com/agribid/auction-engine/internal/shared/logger"
	sharedws "github.com/agribid/auction-engine/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Publisher pushes lot events to the hub as JSON. It implements
// application.EventSink; BroadcastToLot is non-blocking so publishing from
// inside the services is safe.
type Publisher struct {
	hub *sharedws.Hub
}

func NewPublisher(hub *sharedws.Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) Publish(event application.LotEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal lot event",
			zap.String("lotID", event.LotID),
			zap.Error(err),
		)
		return
	}
	p.hub.BroadcastToLot(event.LotID, data)
}
