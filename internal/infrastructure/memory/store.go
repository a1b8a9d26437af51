// Package memory implementa los puertos de persistencia en memoria. Aplica la misma restricción de
// unicidad que el índice parcial de PostgreSQL sobre (tenant_id, ref_table, ref_id, reason) para
// rental_start/rental_return. Lo usan los tests y STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	services     map[string]entity.Service
	serviceOrder []string
	items        map[string]entity.ServiceItem
	itemOrder    []string
	movements    []entity.StockMovement
	articles     map[string]string // id -> nombre
	ouvriers     map[string]entity.Ouvrier
	ouvrierOrder []string
	payments     []entity.SalaryPayment

	faults map[string][]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		services: map[string]entity.Service{},
		items:    map[string]entity.ServiceItem{},
		articles: map[string]string{},
		ouvriers: map[string]entity.Ouvrier{},
		faults:   map[string][]error{},
	}
}

// FailOn encola err para la próxima llamada a op (nombre del método, ej. "AppendRentalMarks").
func (s *Store) FailOn(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], errs...)
}

// fault consume el error encolado para op. Requiere s.mu tomado.
func (s *Store) fault(op string) error {
	q := s.faults[op]
	if len(q) == 0 {
		return nil
	}
	s.faults[op] = q[1:]
	return q[0]
}

// Run serializa las transacciones. Si fn falla se deshacen solo las escrituras hechas con los
// repositorios de la transacción; lo escrito por fuera queda intacto.
func (s *Store) Run(ctx context.Context, fn func(
	serviceRepo repository.ServiceRepository,
	itemRepo repository.ServiceItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &txLog{}
	err := fn(&ServiceRepo{s: s, tx: tx}, &ItemRepo{s: s, tx: tx}, &MovementRepo{s: s, tx: tx})
	if err != nil {
		s.rollback(tx)
		return err
	}
	return nil
}

// txLog operaciones inversas de las escrituras de una transacción. Se ejecutan con s.mu tomado.
type txLog struct {
	undo []func()
}

// add registra f; no-op fuera de una transacción.
func (t *txLog) add(f func()) {
	if t != nil {
		t.undo = append(t.undo, f)
	}
}

func (s *Store) rollback(tx *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
}

// removeMovements quita del ledger las filas con esos IDs. Requiere s.mu tomado.
func (s *Store) removeMovements(ids map[string]struct{}) {
	kept := s.movements[:0:0]
	for _, m := range s.movements {
		if _, drop := ids[m.ID]; !drop {
			kept = append(kept, m)
		}
	}
	s.movements = kept
}

func without(order []string, id string) []string {
	out := make([]string, 0, len(order))
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Services repositorio de servicios.
func (s *Store) Services() *ServiceRepo { return &ServiceRepo{s: s} }

// Items repositorio de ítems de servicio.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Movements repositorio del ledger.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Ouvriers repositorio de trabajadores.
func (s *Store) Ouvriers() *OuvrierRepo { return &OuvrierRepo{s: s} }

// Payments repositorio de pagos de salario.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

// AddArticle registra un artículo para la vista de stock.
func (s *Store) AddArticle(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[id] = name
}

// AddService inserta un servicio (semilla de tests).
func (s *Store) AddService(svc entity.Service) {
	_ = s.Services().Create(context.Background(), &svc)
}

// AddItems inserta ítems (semilla de tests).
func (s *Store) AddItems(items ...entity.ServiceItem) {
	_ = s.Items().CreateBatch(context.Background(), items)
}

// AddMovements inserta movimientos sin validar unicidad (datos antiguos).
func (s *Store) AddMovements(movs ...entity.StockMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range movs {
		s.movements = append(s.movements, withDefaults(m))
	}
}

// AddOuvrier inserta un trabajador.
func (s *Store) AddOuvrier(o entity.Ouvrier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if _, ok := s.ouvriers[o.ID]; !ok {
		s.ouvrierOrder = append(s.ouvrierOrder, o.ID)
	}
	s.ouvriers[o.ID] = o
}

// AllMovements copia del ledger completo (inspección en tests).
func (s *Store) AllMovements() []entity.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

func withDefaults(m entity.StockMovement) entity.StockMovement {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return m
}

func contains(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedByCreated(list []*entity.Service) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}
