package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

// StructureSource estructura del grafo de bundles.
type StructureSource interface {
	IsBundle(ctx context.Context, productID string) (bool, error)
	Components(ctx context.Context, bundleID string) ([]entity.BundleItem, error)
}

// BuildableSource lo que necesita el cálculo de unidades armables: estructura del bundle
// y stock de los componentes simples en la bodega de la consulta.
type BuildableSource interface {
	StructureSource
	Stock(ctx context.Context, productID string) (int64, error)
}

// CycleError indica que un bundle se contiene a sí mismo. Path es la cadena de bundles
// activa terminando en el bundle repetido.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrCyclicBundle.Error(), strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return domain.ErrCyclicBundle }

// MaxBuildable calcula cuántas unidades del bundle se pueden armar con el stock actual:
// el mínimo, sobre los componentes directos, de floor(unidades vendibles del componente / cantidad por unidad).
// Un componente que es bundle se resuelve recursivamente. Bundle sin componentes = 0.
// Los resultados intermedios se memorizan solo durante esta llamada.
func MaxBuildable(ctx context.Context, src BuildableSource, bundleID string) (int64, error) {
	ok, err := src.IsBundle(ctx, bundleID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ErrNotABundle
	}
	w := &walker{
		src:     src,
		onChain: make(map[string]bool),
		memo:    make(map[string]int64),
	}
	return w.buildable(ctx, bundleID)
}

type walker struct {
	src     BuildableSource
	chain   []string
	onChain map[string]bool
	memo    map[string]int64
}

func (w *walker) buildable(ctx context.Context, bundleID string) (int64, error) {
	if w.onChain[bundleID] {
		path := append(append([]string{}, w.chain...), bundleID)
		return 0, &CycleError{Path: path}
	}
	if v, ok := w.memo[bundleID]; ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	w.onChain[bundleID] = true
	w.chain = append(w.chain, bundleID)
	defer func() {
		w.chain = w.chain[:len(w.chain)-1]
		delete(w.onChain, bundleID)
	}()

	items, err := w.src.Components(ctx, bundleID)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		w.memo[bundleID] = 0
		return 0, nil
	}

	result := int64(-1)
	for _, item := range items {
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("%w: cantidad %d en componente %s", domain.ErrInvalidInput, item.Quantity, item.ComponentProductID)
		}
		sellable, err := w.sellable(ctx, item.ComponentProductID)
		if err != nil {
			return 0, err
		}
		units := sellable / item.Quantity
		if result < 0 || units < result {
			result = units
		}
	}
	w.memo[bundleID] = result
	return result, nil
}

func (w *walker) sellable(ctx context.Context, productID string) (int64, error) {
	isBundle, err := w.src.IsBundle(ctx, productID)
	if err != nil {
		return 0, err
	}
	if isBundle {
		return w.buildable(ctx, productID)
	}
	return w.src.Stock(ctx, productID)
}

// Expand descompone units unidades de un bundle en cantidades de productos simples.
// Los componentes que son bundles se expanden recursivamente y las cantidades de un mismo
// producto alcanzado por varios caminos se suman.
func Expand(ctx context.Context, src StructureSource, bundleID string, units int64) (map[string]int64, error) {
	if units <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ok, err := src.IsBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotABundle
	}
	out := make(map[string]int64)
	e := &expander{src: src, onChain: make(map[string]bool), out: out}
	if err := e.expand(ctx, bundleID, units); err != nil {
		return nil, err
	}
	return out, nil
}

type expander struct {
	src     StructureSource
	chain   []string
	onChain map[string]bool
	out     map[string]int64
}

func (e *expander) expand(ctx context.Context, bundleID string, units int64) error {
	if e.onChain[bundleID] {
		return &CycleError{Path: append(append([]string{}, e.chain...), bundleID)}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.onChain[bundleID] = true
	e.chain = append(e.chain, bundleID)
	defer func() {
		e.chain = e.chain[:len(e.chain)-1]
		delete(e.onChain, bundleID)
	}()

	items, err := e.src.Components(ctx, bundleID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: el bundle %s no tiene componentes", domain.ErrInvalidInput, bundleID)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: cantidad %d en componente %s", domain.ErrInvalidInput, item.Quantity, item.ComponentProductID)
		}
		need, ok := MulChecked(item.Quantity, units)
		if !ok {
			return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		isBundle, err := e.src.IsBundle(ctx, item.ComponentProductID)
		if err != nil {
			return err
		}
		if isBundle {
			if err := e.expand(ctx, item.ComponentProductID, need); err != nil {
				return err
			}
			continue
		}
		total, ok := AddChecked(e.out[item.ComponentProductID], need)
		if !ok {
			return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		e.out[item.ComponentProductID] = total
	}
	return nil
}

// ComponentsFunc devuelve la composición directa de un bundle.
type ComponentsFunc func(ctx context.Context, bundleID string) ([]entity.BundleItem, error)

// WouldCreateCycle informa si agregar la arista bundleID -> componentID cerraría un ciclo,
// es decir, si bundleID ya es alcanzable desde componentID.
func WouldCreateCycle(ctx context.Context, components ComponentsFunc, bundleID, componentID string) (bool, error) {
	if bundleID == componentID {
		return true, nil
	}
	visited := map[string]bool{}
	stack := []string{componentID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		items, err := components(ctx, current)
		if err != nil {
			return false, err
		}
		for _, item := range items {
			if item.ComponentProductID == bundleID {
				return true, nil
			}
			stack = append(stack, item.ComponentProductID)
		}
	}
	return false, nil
}

// IsCycle atajo para errors.Is(err, domain.ErrCyclicBundle).
func IsCycle(err error) bool {
	return errors.Is(err, domain.ErrCyclicBundle)
}
