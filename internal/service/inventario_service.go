package service

import (
	"context"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioService owns manual stock movements and stock queries. Sale
// deductions go through VentaService, but both share the same conditional
// write path in StockRepository, so the non-negative rule holds everywhere.
type InventarioService struct {
	stock     repository.StockRepository
	productos repository.ProductoRepository
	comercios repository.ComercioRepository
}

func NewInventarioService(stock repository.StockRepository, productos repository.ProductoRepository, comercios repository.ComercioRepository) *InventarioService {
	return &InventarioService{stock: stock, productos: productos, comercios: comercios}
}

// Ajustar applies a manual signed adjustment and records the ledger entry.
// Positive deltas are recorded as "reposicion", negative as "ajuste_manual".
func (s *InventarioService) Ajustar(ctx context.Context, req dto.AjusteStockRequest) (*dto.StockResponse, error) {
	if req.Delta == 0 {
		return nil, domain.Validation("el delta de ajuste no puede ser cero")
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, domain.Validation("producto_id inválido")
	}
	bodegaID, err := uuid.Parse(req.BodegaID)
	if err != nil {
		return nil, domain.Validation("bodega_id inválido")
	}
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return nil, err
	}
	if _, err := s.comercios.FindBodegaByID(ctx, bodegaID); err != nil {
		return nil, err
	}

	tipo := "ajuste_manual"
	if req.Delta > 0 {
		tipo = "reposicion"
	}

	var nuevo int
	err = runTx(ctx, s.stock.DB(), func(tx *gorm.DB) error {
		anterior, err := s.stockActualTx(ctx, tx, productoID, bodegaID)
		if err != nil {
			return err
		}
		nuevo, err = s.stock.AplicarDeltaTx(tx, productoID, bodegaID, req.Delta)
		if err != nil {
			return err
		}
		return s.stock.CreateMovimientoTx(tx, &model.MovimientoStock{
			ProductoID:    productoID,
			BodegaID:      bodegaID,
			Tipo:          tipo,
			Cantidad:      req.Delta,
			StockAnterior: anterior,
			StockNuevo:    nuevo,
			Motivo:        req.Motivo,
		})
	})
	if err != nil {
		return nil, err
	}

	return &dto.StockResponse{
		ProductoID: req.ProductoID,
		BodegaID:   req.BodegaID,
		Cantidad:   nuevo,
	}, nil
}

func (s *InventarioService) stockActualTx(ctx context.Context, tx *gorm.DB, productoID, bodegaID uuid.UUID) (int, error) {
	// Inside a transaction the read must come from the same tx to stay
	// consistent with the conditional update that follows.
	if tx == nil {
		return s.stock.StockEnBodega(ctx, productoID, bodegaID)
	}
	return repository.NewStockRepository(tx).StockEnBodega(ctx, productoID, bodegaID)
}

func (s *InventarioService) StockEnBodega(ctx context.Context, productoID, bodegaID uuid.UUID) (int, error) {
	return s.stock.StockEnBodega(ctx, productoID, bodegaID)
}

// TotalStock is the aggregate across all bodegas; product availability
// derives from it being positive.
func (s *InventarioService) TotalStock(ctx context.Context, productoID uuid.UUID) (int, error) {
	return s.stock.TotalStock(ctx, productoID)
}

func (s *InventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error) {
	movimientos, total, err := s.stock.ListMovimientos(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movimientos))
	for _, m := range movimientos {
		out = append(out, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			BodegaID:      m.BodegaID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &dto.MovimientoStockListResponse{
		Data:  out,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
