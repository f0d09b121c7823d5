// Package memory almacén en memoria para desarrollo y tests. No persiste entre reinicios.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ repository.Pinger  = (*Store)(nil)
)

// Store guarda medicamentos, movimientos y operadores protegidos por un único mutex.
type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	medications map[string]*entity.Medication
	movements   []*entity.Movement
	users       map[string]*entity.User // por email

	medRepo  *MedicationRepository
	movRepo  *MovementRepository
	userRepo *UserRepository
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	s := &Store{
		medications: make(map[string]*entity.Medication),
		users:       make(map[string]*entity.User),
	}
	s.medRepo = &MedicationRepository{s: s}
	s.movRepo = &MovementRepository{s: s}
	s.userRepo = &UserRepository{s: s}
	return s
}

// Medications repositorio de medicamentos.
func (s *Store) Medications() *MedicationRepository { return s.medRepo }

// Movements repositorio del historial.
func (s *Store) Movements() *MovementRepository { return s.movRepo }

// Users repositorio de operadores.
func (s *Store) Users() *UserRepository { return s.userRepo }

// Ping siempre responde; el almacén vive en el proceso.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Run serializa las unidades de trabajo. Si fn falla se deshacen, en orden inverso, solo las
// escrituras hechas con los repositorios que recibe fn; las de otros llamadores se conservan.
func (s *Store) Run(ctx context.Context, fn func(
	medRepo repository.MedicationRepository,
	movRepo repository.MovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := &undoLog{}
	if err := fn(&MedicationRepository{s: s, undo: undo}, &MovementRepository{s: s, undo: undo}); err != nil {
		s.mu.Lock()
		undo.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

// undoLog inversas de las escrituras de una unidad de trabajo. Se usa con s.mu tomado.
type undoLog struct {
	ops []func()
}

// push registra op; sin log (fuera de Run) no hace nada.
func (u *undoLog) push(op func()) {
	if u != nil {
		u.ops = append(u.ops, op)
	}
}

func (u *undoLog) rollback() {
	for i := len(u.ops) - 1; i >= 0; i-- {
		u.ops[i]()
	}
	u.ops = nil
}

func cloneMedication(m *entity.Medication) *entity.Medication {
	c := *m
	if m.LastRestock != nil {
		r := *m.LastRestock
		if r.ExpiryDate != nil {
			e := *r.ExpiryDate
			r.ExpiryDate = &e
		}
		c.LastRestock = &r
	}
	if m.DeletedAt != nil {
		d := *m.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	if m.ExpiryDate != nil {
		e := *m.ExpiryDate
		c.ExpiryDate = &e
	}
	return &c
}
