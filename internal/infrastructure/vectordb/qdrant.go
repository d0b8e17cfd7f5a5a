package vectordb

import (
	"context"
	"fmt"
	"log/slog"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	// VectorSize matches the embedding model's dimensionality
	// (text-embedding-3-small).
	VectorSize = 1536
)

type QdrantClient struct {
	collection string
	conn       *grpc.ClientConn
	client     pb.CollectionsClient
	points     pb.PointsClient
}

func NewQdrantClient(host string, port int, collection string) (*QdrantClient, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant: %w", err)
	}

	return &QdrantClient{
		collection: collection,
		conn:       conn,
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
	}, nil
}

func (q *QdrantClient) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// InitCollection ensures the memory collection exists.
func (q *QdrantClient) InitCollection(ctx context.Context) error {
	exists, err := q.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: q.collection,
	})
	if err == nil && exists != nil {
		slog.Info("qdrant collection exists", "collection", q.collection)
		return nil
	}

	slog.Info("creating qdrant collection", "collection", q.collection, "dim", VectorSize)
	_, err = q.client.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     VectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}
