package report

import (
	"slices"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// Edge — неупорядоченная пара начинок с весом совместного появления.
// Пара канонична: A предшествует B в порядке справочника.
type Edge struct {
	A      catalog.Topping
	B      catalog.Topping
	Weight int
}

// Graph хранит граф совместного появления начинок. Узлы: все начинки справочника.
// Не потокобезопасен: строится один раз по списку заказов.
type Graph struct {
	weights [][]int
}

// NewGraph создаёт граф без рёбер.
func NewGraph() *Graph {
	n := len(catalog.Toppings())
	weights := make([][]int, n)
	for i := range weights {
		weights[i] = make([]int, n)
	}
	return &Graph{weights: weights}
}

// BuildCooccurrence строит граф по всем пиццам всех заказов.
func BuildCooccurrence(orders []domain.Order) *Graph {
	g := NewGraph()
	for _, order := range orders {
		g.AddOrder(order)
	}
	return g
}

// AddOrder учитывает каждую пиццу заказа.
func (g *Graph) AddOrder(order domain.Order) {
	for _, item := range order.Items {
		g.Add(item.Toppings())
	}
}

// Add увеличивает вес каждой пары различных начинок одной пиццы на единицу.
// Повторы начинки внутри пиццы схлопываются, петли не учитываются.
func (g *Graph) Add(toppings []catalog.Topping) {
	distinct := make([]catalog.Topping, 0, len(toppings))
	for _, topping := range toppings {
		if topping.Valid() && !slices.Contains(distinct, topping) {
			distinct = append(distinct, topping)
		}
	}

	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			a, b := distinct[i], distinct[j]
			g.weights[a][b]++
			g.weights[b][a]++
		}
	}
}

// Weight возвращает вес ребра. Weight(a, b) == Weight(b, a).
func (g *Graph) Weight(a, b catalog.Topping) int {
	if !a.Valid() || !b.Valid() {
		return 0
	}
	return g.weights[a][b]
}

// Nodes возвращает все начинки справочника.
func (g *Graph) Nodes() []catalog.Topping {
	return catalog.Toppings()
}

// Edges перечисляет каждое ребро с весом >= 1 ровно один раз, отсортировав по (A, B).
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for a := range g.weights {
		for b := a + 1; b < len(g.weights); b++ {
			if w := g.weights[a][b]; w > 0 {
				edges = append(edges, Edge{A: catalog.Topping(a), B: catalog.Topping(b), Weight: w})
			}
		}
	}
	return edges
}

// Neighbours возвращает партнёров начинки по убыванию веса; при равенстве сохраняется порядок справочника.
func (g *Graph) Neighbours(topping catalog.Topping) []ToppingCount {
	if !topping.Valid() {
		return nil
	}
	var result []ToppingCount
	for other, w := range g.weights[topping] {
		if w > 0 {
			result = append(result, ToppingCount{Topping: catalog.Topping(other), Count: w})
		}
	}
	slices.SortStableFunc(result, func(x, y ToppingCount) int {
		return y.Count - x.Count
	})
	return result
}
