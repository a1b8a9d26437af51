// Package service crea y lista servicios de alquiler y venta.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	apprental "github.com/jhoicas/erp-location-api/internal/application/rental"
	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción: servicio, líneas y movimientos de venta se guardan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		serviceRepo repository.ServiceRepository,
		itemRepo repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// RentalSyncer reconciliación en segundo plano antes de listar.
type RentalSyncer interface {
	SyncBestEffort(ctx context.Context, tenantID string, now time.Time) *apprental.Summary
}

// SaleReasonPrefix motivo de las salidas de stock de una venta: "Sale #" + 8 primeros caracteres del ID.
const SaleReasonPrefix = "Sale #"

// UseCase casos de uso de servicios.
type UseCase struct {
	txRunner    TxRunner
	serviceRepo repository.ServiceRepository
	itemRepo    repository.ServiceItemRepository
	syncer      RentalSyncer
}

// NewUseCase construye el caso de uso. syncer puede ser nil.
func NewUseCase(txRunner TxRunner, serviceRepo repository.ServiceRepository, itemRepo repository.ServiceItemRepository, syncer RentalSyncer) *UseCase {
	return &UseCase{txRunner: txRunner, serviceRepo: serviceRepo, itemRepo: itemRepo, syncer: syncer}
}

// Create valida y persiste un servicio confirmado con sus líneas. Las ventas descuentan stock en el
// acto; los alquileres no: el reconciliador aplica los inicios cuando llegan.
func (uc *UseCase) Create(ctx context.Context, tenantID string, in dto.CreateServiceRequest, now time.Time) (*dto.ServiceResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	svc, items, err := buildService(tenantID, in, now)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(
		serviceRepo repository.ServiceRepository,
		itemRepo repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := serviceRepo.Create(ctx, svc); err != nil {
			return err
		}
		if err := itemRepo.CreateBatch(ctx, items); err != nil {
			return err
		}
		if svc.Type != entity.ServiceTypeSale {
			return nil
		}
		return movRepo.Append(ctx, saleMovements(svc, items, now))
	})
	if err != nil {
		return nil, fmt.Errorf("crear servicio: %w", err)
	}
	out := ToResponse(svc, items)
	return &out, nil
}

// Get servicio con sus líneas.
func (uc *UseCase) Get(ctx context.Context, tenantID, id string) (*dto.ServiceResponse, error) {
	svc, err := uc.serviceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.itemRepo.ListByService(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := ToResponse(svc, items)
	return &out, nil
}

// List reconcilia los alquileres del tenant sin bloquear por errores y lista sus servicios.
func (uc *UseCase) List(ctx context.Context, tenantID string, page dto.PageRequest, now time.Time) (*dto.ServiceListResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.syncer != nil {
		uc.syncer.SyncBestEffort(ctx, tenantID, now)
	}
	page.DefaultPage()
	list, err := uc.serviceRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ServiceListResponse{
		Items: make([]dto.ServiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, svc := range list {
		out.Items = append(out.Items, ToResponse(svc, nil))
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrInvalidInput)
}

func buildService(tenantID string, in dto.CreateServiceRequest, now time.Time) (*entity.Service, []entity.ServiceItem, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind != entity.ServiceTypeRental && kind != entity.ServiceTypeSale {
		return nil, nil, invalid("tipo de servicio %q", in.Type)
	}
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, nil, invalid("client_id requerido")
	}
	if len(in.Items) == 0 {
		return nil, nil, invalid("el servicio necesita al menos una línea")
	}
	if in.DiscountAmount.IsNegative() {
		return nil, nil, invalid("el descuento no puede ser negativo")
	}

	svc := &entity.Service{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		ClientID:       in.ClientID,
		Type:           kind,
		Status:         entity.ServiceStatusConfirmed,
		DiscountAmount: in.DiscountAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	subtotal := decimal.Zero
	deposit := decimal.Zero
	hasDeposit := false
	items := make([]entity.ServiceItem, 0, len(in.Items))
	for i, line := range in.Items {
		n := i + 1
		if strings.TrimSpace(line.ArticleID) == "" {
			return nil, nil, invalid("línea %d: article_id requerido", n)
		}
		if line.Qty < 1 {
			return nil, nil, invalid("línea %d: la cantidad debe ser al menos 1", n)
		}
		if line.UnitPrice.IsNegative() {
			return nil, nil, invalid("línea %d: precio unitario negativo", n)
		}
		it := entity.ServiceItem{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			ServiceID: svc.ID,
			ArticleID: line.ArticleID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			CreatedAt: now,
		}
		if kind == entity.ServiceTypeRental {
			start, end, err := rentalWindow(n, line)
			if err != nil {
				return nil, nil, err
			}
			it.RentalStart, it.RentalEnd = &start, &end
			if line.RentalDeposit != nil {
				if line.RentalDeposit.IsNegative() {
					return nil, nil, invalid("línea %d: depósito negativo", n)
				}
				d := *line.RentalDeposit
				it.RentalDeposit = &d
				deposit = deposit.Add(d)
				hasDeposit = true
			}
			if svc.RentalStart == nil || start.Before(*svc.RentalStart) {
				s := start
				svc.RentalStart = &s
			}
			if svc.RentalEnd == nil || end.After(*svc.RentalEnd) {
				e := end
				svc.RentalEnd = &e
			}
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
		items = append(items, it)
	}

	if in.DiscountAmount.GreaterThan(subtotal) {
		return nil, nil, invalid("el descuento %s supera el subtotal %s", in.DiscountAmount, subtotal)
	}
	svc.Total = decimal.Max(decimal.Zero, subtotal.Sub(in.DiscountAmount))
	if hasDeposit {
		svc.RentalDeposit = &deposit
	}
	return svc, items, nil
}

func rentalWindow(n int, line dto.ServiceItemInput) (time.Time, time.Time, error) {
	if line.RentalStart == "" || line.RentalEnd == "" {
		return time.Time{}, time.Time{}, invalid("línea %d: fechas de alquiler requeridas", n)
	}
	start, err := time.Parse(time.DateOnly, line.RentalStart)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("línea %d: rental_start %q", n, line.RentalStart)
	}
	end, err := time.Parse(time.DateOnly, line.RentalEnd)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("línea %d: rental_end %q", n, line.RentalEnd)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, invalid("línea %d: rental_end anterior a rental_start", n)
	}
	return start, end, nil
}

func saleMovements(svc *entity.Service, items []entity.ServiceItem, now time.Time) []entity.StockMovement {
	reason := SaleReasonPrefix + shortID(svc.ID)
	refTable := entity.RefTableServices
	movs := make([]entity.StockMovement, 0, len(items))
	for _, it := range items {
		refID := svc.ID
		movs = append(movs, entity.StockMovement{
			TenantID:  svc.TenantID,
			ArticleID: it.ArticleID,
			QtyDelta:  -it.Qty,
			Reason:    reason,
			RefTable:  &refTable,
			RefID:     &refID,
			CreatedAt: now,
		})
	}
	return movs
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
