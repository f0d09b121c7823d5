package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo colección movimientos (solo inserciones y lecturas).
type MovementRepo struct {
	coll *mongo.Collection
	sess mongo.Session
}

func (r *MovementRepo) Create(ctx context.Context, mov *entity.Movement) error {
	if _, err := r.coll.InsertOne(bind(ctx, r.sess), toMovementDoc(mov)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("mongo: crear movimiento: %w", err)
	}
	return nil
}

func movementQuery(f repository.MovementFilter) bson.M {
	q := bson.M{}
	if f.MedicationID != "" {
		q["medication_id"] = f.MedicationID
	}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.From != nil || f.To != nil {
		date := bson.M{}
		if f.From != nil {
			date["$gte"] = *f.From
		}
		if f.To != nil {
			date["$lte"] = *f.To
		}
		q["date"] = date
	}
	return q
}

func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	ctx = bind(ctx, r.sess)
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "recorded_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.coll.Find(ctx, movementQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listar movimientos: %w", err)
	}
	var docs []movementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: leer movimientos: %w", err)
	}
	out := make([]*entity.Movement, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func (r *MovementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	n, err := r.coll.CountDocuments(bind(ctx, r.sess), movementQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("mongo: contar movimientos: %w", err)
	}
	return int(n), nil
}

// dispensedPipeline agrupa las salidas de [from, to] por medicamento.
func dispensedPipeline(from, to time.Time, limit int) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "type", Value: entity.MovementTypeOUT},
			{Key: "date", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$medication_id"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "frequency", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	return p
}

func (r *MovementRepo) SumDispensed(ctx context.Context, from, to time.Time, limit int) ([]repository.DispensedTotal, error) {
	ctx = bind(ctx, r.sess)
	cur, err := r.coll.Aggregate(ctx, dispensedPipeline(from, to, limit))
	if err != nil {
		return nil, fmt.Errorf("mongo: agregar salidas: %w", err)
	}
	var rows []struct {
		MedicationID string `bson:"_id"`
		Total        int    `bson:"total"`
		Frequency    int    `bson:"frequency"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("mongo: leer agregado: %w", err)
	}
	out := make([]repository.DispensedTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.DispensedTotal{MedicationID: row.MedicationID, Total: row.Total, Frequency: row.Frequency})
	}
	return out, nil
}
