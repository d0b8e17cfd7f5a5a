package vectordb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
	pb "github.com/qdrant/go-client/qdrant"
)

type QdrantRepository struct {
	client *QdrantClient
}

func NewQdrantRepository(client *QdrantClient) repository.MemoryRepo {
	return &QdrantRepository{client: client}
}

func (r *QdrantRepository) SaveMemory(ctx context.Context, userID string, expenseID uint, description string, category string, vector []float32) error {
	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(expenseID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vector},
				},
			},
			Payload: map[string]*pb.Value{
				"user_id":     {Kind: &pb.Value_StringValue{StringValue: userID}},
				"expense_id":  {Kind: &pb.Value_IntegerValue{IntegerValue: int64(expenseID)}},
				"description": {Kind: &pb.Value_StringValue{StringValue: description}},
				"category":    {Kind: &pb.Value_StringValue{StringValue: category}},
				"timestamp":   {Kind: &pb.Value_IntegerValue{IntegerValue: time.Now().Unix()}},
			},
		},
	}

	wait := true
	_, err := r.client.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.client.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}

	slog.Debug("memory saved", "expense_id", expenseID)
	return nil
}

func (r *QdrantRepository) SearchSimilar(ctx context.Context, userID string, limit int, queryVector []float32) ([]repository.MemoryResult, error) {
	filter := &pb.Filter{
		Must: []*pb.Condition{{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key: "user_id",
					Match: &pb.Match{
						MatchValue: &pb.Match_Text{Text: userID},
					},
				},
			},
		}},
	}

	searchResult, err := r.client.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.client.collection,
		Vector:         queryVector,
		Limit:          uint64(limit),
		Filter:         filter,
		// Without this Qdrant returns only IDs and scores, no payload.
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	var results []repository.MemoryResult
	for _, point := range searchResult.Result {
		var result repository.MemoryResult
		if val, ok := point.Payload["description"]; ok {
			if strVal, ok := val.Kind.(*pb.Value_StringValue); ok {
				result.Content = strVal.StringValue
			}
		}
		if val, ok := point.Payload["category"]; ok {
			if strVal, ok := val.Kind.(*pb.Value_StringValue); ok {
				result.Category = strVal.StringValue
			}
		}
		if t, ok := point.Payload["timestamp"]; ok {
			result.Timestamp = t.GetIntegerValue()
		}
		results = append(results, result)
	}

	return results, nil
}

func (r *QdrantRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.client.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.client.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Num{Num: uint64(id)}},
					},
				},
			},
		},
	})
	return err
}
