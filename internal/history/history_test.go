package history

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRecordWireShape(t *testing.T) {
	rec := ActionRecord{
		MatchID:     uuid.New(),
		ActionIndex: 3,
		ActorID:     uuid.New(),
		ActionType:  "play_card",
		Payload:     map[string]interface{}{"name": "Alice", "card": "10♠️"},
		Timestamp:   1700000000000,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded ActionRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec.MatchID, decoded.MatchID)
	assert.Equal(t, "play_card", decoded.ActionType)
	assert.Equal(t, "10♠️", decoded.Payload["card"])
}

func TestNilPublisherDropsRecords(t *testing.T) {
	// The engine publishes unconditionally; a disabled publisher must be
	// safe to call.
	var p *Publisher
	assert.NoError(t, p.Publish(context.Background(), ActionRecord{ActionType: "match_deal"}))
	assert.NoError(t, p.Close())
}
