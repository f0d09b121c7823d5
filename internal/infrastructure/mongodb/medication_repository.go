package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var _ repository.MedicationRepository = (*MedicationRepo)(nil)

// MedicationRepo colección medicamentos. sess != nil dentro de Store.Run transaccional.
type MedicationRepo struct {
	coll *mongo.Collection
	sess mongo.Session
}

func (r *MedicationRepo) Create(ctx context.Context, med *entity.Medication) error {
	if _, err := r.coll.InsertOne(bind(ctx, r.sess), toMedicationDoc(med)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("mongo: crear medicamento: %w", err)
	}
	return nil
}

func (r *MedicationRepo) GetByID(ctx context.Context, id string) (*entity.Medication, error) {
	var doc medicationDoc
	err := r.coll.FindOne(bind(ctx, r.sess), bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: obtener medicamento: %w", err)
	}
	return doc.entity(), nil
}

func (r *MedicationRepo) Update(ctx context.Context, med *entity.Medication) error {
	update := bson.M{"$set": bson.M{
		"name":       med.Name,
		"unit":       med.Unit,
		"location":   med.Location,
		"min_stock":  med.MinStock,
		"updated_at": med.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(bind(ctx, r.sess), bson.M{"_id": med.ID, "active": true}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("mongo: actualizar medicamento: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// medicationQuery traduce el filtro a un documento de consulta.
func medicationQuery(f repository.MedicationFilter) bson.M {
	q := bson.M{}
	if !f.IncludeDeleted {
		q["active"] = true
	}
	if f.BelowThreshold {
		q["$expr"] = bson.M{"$lte": bson.A{"$quantity", "$min_stock"}}
	}
	if len(f.IDs) > 0 {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	return q
}

func (r *MedicationRepo) List(ctx context.Context, filter repository.MedicationFilter) ([]*entity.Medication, error) {
	ctx = bind(ctx, r.sess)
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, medicationQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listar medicamentos: %w", err)
	}
	var docs []medicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: leer medicamentos: %w", err)
	}
	out := make([]*entity.Medication, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

// AdjustQuantity usa un $inc condicionado a quantity >= -delta: el servidor arbitra
// las escrituras concurrentes y el stock nunca queda negativo.
func (r *MedicationRepo) AdjustQuantity(ctx context.Context, id string, delta int, restock *entity.RestockInfo) (*entity.Medication, error) {
	ctx = bind(ctx, r.sess)
	set := bson.M{"updated_at": time.Now().UTC()}
	if restock != nil {
		set["last_restock"] = toRestockDoc(restock)
	}
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": -delta}}
	update := bson.M{"$inc": bson.M{"quantity": delta}, "$set": set}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc medicationDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.entity(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("mongo: ajustar stock: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return nil, &domain.StockError{MedicationID: id, Available: current.Quantity, Requested: -delta}
}

func (r *MedicationRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{"active": false, "deleted_at": at, "updated_at": at}}
	res, err := r.coll.UpdateOne(bind(ctx, r.sess), bson.M{"_id": id, "active": true}, update)
	if err != nil {
		return fmt.Errorf("mongo: baja de medicamento: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MedicationRepo) NextOrder(ctx context.Context) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})
	var doc struct {
		Order int `bson:"order"`
	}
	err := r.coll.FindOne(bind(ctx, r.sess), bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("mongo: siguiente orden: %w", err)
	}
	return doc.Order + 1, nil
}
