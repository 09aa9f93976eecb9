package mongodb

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
)

// NewClient connects, pings the primary and wires connection lifecycle logging.
func NewClient(ctx context.Context, uri string, timeout time.Duration, logger *logrus.Logger) (*mongo.Client, error) {
	monitor := &event.ServerMonitor{
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			logger.WithError(e.Failure).WithField("connection_id", e.ConnectionID).Warn("mongodb heartbeat failed")
		},
		TopologyClosed: func(*event.TopologyClosedEvent) {
			logger.Info("mongodb disconnected")
		},
	}
	opts := options.Client().ApplyURI(uri).SetServerMonitor(monitor)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Info("mongodb connected")
	return client, nil
}

// Disconnect closes the client with a bounded wait
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
