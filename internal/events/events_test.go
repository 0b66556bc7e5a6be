package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(TypeMoveSelected, MoveSelectedPayload{Mark: "X", Rule: "center", Row: 1, Col: 1})
	require.NoError(t, err)

	assert.Equal(t, TypeMoveSelected, event.Type)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.JSONEq(t, `{"mark":"X","difficulty":"","rule":"center","row":1,"col":1}`, string(event.Payload))
}

func TestNewEventBadPayload(t *testing.T) {
	_, err := NewEvent(TypeMoveSelected, make(chan int))
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeMoveSelected}))
}

func TestRedisPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	sub := rdb.Subscribe(ctx, "channel:test")
	t.Cleanup(func() { sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	event, err := NewEvent(TypeMoveSelected, MoveSelectedPayload{Mark: "O", Difficulty: "hard", Rule: "block", Row: 0, Col: 2})
	require.NoError(t, err)

	require.NoError(t, NewRedisPublisher(rdb, "channel:test").Publish(ctx, event))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, TypeMoveSelected, got.Type)

	var payload MoveSelectedPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "block", payload.Rule)
	assert.Equal(t, 2, payload.Col)
}

func TestRedisPublisherDefaultChannel(t *testing.T) {
	p := NewRedisPublisher(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	assert.Equal(t, EventsChannel, p.(*redisPublisher).channel)
}
