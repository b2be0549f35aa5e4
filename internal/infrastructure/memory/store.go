// Package memory implementa los puertos de repositorio en memoria con el mismo contrato
// transaccional que PostgreSQL: escrituras en staging aplicadas al commit y bloqueo por fila.
// Se usa en tests y con STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// errNoTx se devuelve al usar una operación de escritura bloqueante fuera de una transacción.
var errNoTx = errors.New("memory: operación válida solo dentro de una transacción")

type pairKey struct {
	productID   string
	warehouseID string
}

// Store estado comprometido más los bloqueos de fila y de grafo de bundles.
type Store struct {
	mu         sync.RWMutex
	companies  map[string]entity.Company
	suppliers  map[string]entity.Supplier
	warehouses map[string]entity.Warehouse
	products   map[string]entity.Product
	skus       map[string]string // sku -> product id
	records    map[pairKey]entity.InventoryRecord
	bundles    map[string][]entity.BundleItem // bundle id -> aristas
	audit      []entity.AuditEntry
	sales      []entity.Sale

	locksMu    sync.Mutex
	rowLocks   map[pairKey]chan struct{}
	graphLocks map[string]chan struct{}
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies:  make(map[string]entity.Company),
		suppliers:  make(map[string]entity.Supplier),
		warehouses: make(map[string]entity.Warehouse),
		products:   make(map[string]entity.Product),
		skus:       make(map[string]string),
		records:    make(map[pairKey]entity.InventoryRecord),
		bundles:    make(map[string][]entity.BundleItem),
		rowLocks:   make(map[pairKey]chan struct{}),
		graphLocks: make(map[string]chan struct{}),
	}
}

// Repositorios sin transacción (lecturas del estado comprometido y altas directas).

func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) InventoryRecords() *InventoryRecordRepo { return &InventoryRecordRepo{s: s} }
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }
func (s *Store) Bundles() *BundleRepo { return &BundleRepo{s: s} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// acquire toma un lock de capacidad 1 respetando la cancelación del contexto.
func acquire(ctx context.Context, ch chan struct{}) error {
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) rowLock(key pairKey) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.rowLocks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[key] = ch
	}
	return ch
}

func (s *Store) graphLock(companyID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.graphLocks[companyID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.graphLocks[companyID] = ch
	}
	return ch
}

// TxRunner ejecuta funciones con repositorios transaccionales sobre el Store.
type TxRunner struct {
	s *Store
}

// TxRunner devuelve el runner de transacciones del store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// Run ejecuta fn; si devuelve error o el contexto se cancela antes del commit, descarta todo lo
// escrito. Los bloqueos tomados se liberan siempre al terminar.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	t := &txState{
		s:       r.s,
		held:    make(map[pairKey]chan struct{}),
		graph:   make(map[string]chan struct{}),
		records: make(map[pairKey]entity.InventoryRecord),
	}
	defer t.release()

	if err := fn(t.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// txState escrituras pendientes de una transacción.
type txState struct {
	s       *Store
	held    map[pairKey]chan struct{}
	graph   map[string]chan struct{}
	records map[pairKey]entity.InventoryRecord
	audit   []entity.AuditEntry
	prods   []entity.Product
	items   []entity.BundleItem
}

func (t *txState) repos() repository.Tx {
	return repository.Tx{
		Inventory: &InventoryRecordRepo{s: t.s, tx: t},
		Audit:     &AuditRepo{s: t.s, tx: t},
		Products:  &ProductRepo{s: t.s, tx: t},
		Bundles:   &BundleRepo{s: t.s, tx: t},
	}
}

func (t *txState) lockRow(ctx context.Context, key pairKey) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	ch := t.s.rowLock(key)
	if err := acquire(ctx, ch); err != nil {
		return err
	}
	t.held[key] = ch
	return nil
}

func (t *txState) lockGraph(ctx context.Context, companyID string) error {
	if _, ok := t.graph[companyID]; ok {
		return nil
	}
	ch := t.s.graphLock(companyID)
	if err := acquire(ctx, ch); err != nil {
		return err
	}
	t.graph[companyID] = ch
	return nil
}

func (t *txState) release() {
	for key, ch := range t.held {
		<-ch
		delete(t.held, key)
	}
	for id, ch := range t.graph {
		<-ch
		delete(t.graph, id)
	}
}

func (t *txState) stagedProduct(id string) (entity.Product, bool) {
	for _, p := range t.prods {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

// commit valida las restricciones de unicidad contra el estado actual y aplica todo de una vez.
func (t *txState) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range t.prods {
		if _, ok := s.skus[p.SKU]; ok {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
	}
	for _, it := range t.items {
		if hasComponent(s.bundles[it.BundleProductID], it.ComponentProductID) {
			return fmt.Errorf("%w: componente %s", domain.ErrDuplicate, it.ComponentProductID)
		}
	}

	for _, p := range t.prods {
		s.products[p.ID] = p
		s.skus[p.SKU] = p.ID
	}
	for _, it := range t.items {
		s.bundles[it.BundleProductID] = append(s.bundles[it.BundleProductID], it)
	}
	for key, rec := range t.records {
		s.records[key] = rec
	}
	s.audit = append(s.audit, t.audit...)
	return nil
}

func hasComponent(items []entity.BundleItem, componentID string) bool {
	for _, it := range items {
		if it.ComponentProductID == componentID {
			return true
		}
	}
	return false
}
