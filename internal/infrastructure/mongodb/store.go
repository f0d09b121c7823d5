// Package mongodb implementa los repositorios del carro sobre MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
	"github.com/jhoicas/carro-urgencias/pkg/config"
)

// Colecciones.
const (
	CollectionMedications = "medicamentos"
	CollectionMovements   = "movimientos"
	CollectionUsers       = "operadores"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ repository.Pinger  = (*Store)(nil)
)

// Store conexión a la base documental y repositorios sobre ella.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect abre el cliente y comprueba la conexión.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: conectar: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database), transactions: cfg.Transactions}, nil
}

// Close desconecta el cliente.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping comprueba la conectividad.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Medications repositorio de medicamentos sin sesión.
func (s *Store) Medications() *MedicationRepo {
	return &MedicationRepo{coll: s.db.Collection(CollectionMedications)}
}

// Movements repositorio del historial sin sesión.
func (s *Store) Movements() *MovementRepo {
	return &MovementRepo{coll: s.db.Collection(CollectionMovements)}
}

// Users repositorio de operadores.
func (s *Store) Users() *UserRepo {
	return &UserRepo{coll: s.db.Collection(CollectionUsers)}
}

// EnsureIndexes crea los índices de las colecciones.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	meds := []mongo.IndexModel{
		{
			// Nombre único entre activos, sin distinguir mayúsculas.
			Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().
				SetName("name_active_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}).
				SetCollation(&options.Collation{Locale: "es", Strength: 2}),
		},
		{Keys: bson.D{{Key: "order", Value: 1}}, Options: options.Index().SetName("order")},
	}
	if _, err := s.db.Collection(CollectionMedications).Indexes().CreateMany(ctx, meds); err != nil {
		return fmt.Errorf("mongo: índices de medicamentos: %w", err)
	}

	movs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}, {Key: "recorded_at", Value: -1}}, Options: options.Index().SetName("date_recorded")},
		{Keys: bson.D{{Key: "medication_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetName("medication_date")},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetName("type_date")},
	}
	if _, err := s.db.Collection(CollectionMovements).Indexes().CreateMany(ctx, movs); err != nil {
		return fmt.Errorf("mongo: índices de movimientos: %w", err)
	}

	users := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}
	if _, err := s.db.Collection(CollectionUsers).Indexes().CreateOne(ctx, users); err != nil {
		return fmt.Errorf("mongo: índices de operadores: %w", err)
	}
	return nil
}

// Run ejecuta fn. Con MONGO_TRANSACTIONS=true usa una transacción multi-documento (requiere
// replica set); si no, depende del $inc condicional de AdjustQuantity, que ya impide stock negativo.
func (s *Store) Run(ctx context.Context, fn func(
	medRepo repository.MedicationRepository,
	movRepo repository.MovementRepository,
) error) error {
	if !s.transactions {
		return fn(s.Medications(), s.Movements())
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo: iniciar sesión: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		meds := &MedicationRepo{coll: s.db.Collection(CollectionMedications), sess: sess}
		movs := &MovementRepo{coll: s.db.Collection(CollectionMovements), sess: sess}
		return nil, fn(meds, movs)
	})
	return err
}

// bind asocia ctx a la sesión cuando el repositorio participa en una transacción.
func bind(ctx context.Context, sess mongo.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, sess)
}
