package infrastructure

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupNATS(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping NATS test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			Cmd:          []string{"-js"},
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate nats container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "4222/tcp", "nats")
	require.NoError(t, err)
	return endpoint
}

func TestNATSNotificationPublisherIntegration(t *testing.T) {
	url := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := NewNATSClient(url, "oversight-test")
	require.NoError(t, client.Connect(ctx))
	defer client.Close()
	assert.True(t, client.IsConnected())

	require.NoError(t, EnsureNotificationStream(client, "oversight"))
	// A second call finds the existing stream
	require.NoError(t, EnsureNotificationStream(client, "oversight"))

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan *nats.Msg, 1)
	subscription, err := sub.ChanSubscribe("oversight.notifications.>", received)
	require.NoError(t, err)
	defer subscription.Unsubscribe()
	require.NoError(t, sub.Flush())

	notification := &models.Notification{ID: uuid.New(), UserID: uuid.New(), Title: "Program Delayed", Type: "warning"}
	require.NoError(t, NewNATSNotificationPublisher(client, "oversight").PublishNotification(ctx, notification))

	select {
	case msg := <-received:
		assert.Equal(t, "oversight.notifications.warning", msg.Subject)
		var envelope Envelope
		require.NoError(t, json.Unmarshal(msg.Data, &envelope))
		assert.Equal(t, "notification.warning", envelope.EventType)
	case <-ctx.Done():
		t.Fatal("notification was not delivered")
	}
}

func TestNATSClient_PublishWithoutConnection(t *testing.T) {
	client := NewNATSClient("nats://127.0.0.1:1", "oversight-test")

	err := client.Publish(context.Background(), "oversight.notifications.info", []byte("{}"))

	assert.ErrorContains(t, err, "not connected")
	assert.False(t, client.IsConnected())
	assert.NoError(t, client.Close())
}
