package memory

import (
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// customerRepositoryInMemory хранит клиентов в порядке добавления.
type customerRepositoryInMemory struct {
	mu        sync.RWMutex
	customers []*domain.Customer
}

// NewCustomerRepository создаёт in-memory реализацию CustomerRepository.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{}
}

// Add сохраняет клиента. Дубликаты допустимы: каждая запись получает свой указатель.
func (r *customerRepositoryInMemory) Add(customer domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := customer
	r.customers = append(r.customers, &stored)
	return &stored, nil
}

func (r *customerRepositoryInMemory) List() ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Customer, len(r.customers))
	copy(result, r.customers)
	return result, nil
}

// FindByName ищет первого клиента, чьё имя содержит обрезанный запрос без учёта регистра.
// Пустой запрос совпадает с первым клиентом.
func (r *customerRepositoryInMemory) FindByName(query string) (*domain.Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	for _, customer := range r.customers {
		if strings.Contains(strings.ToLower(customer.Name), needle) {
			return customer, true
		}
	}
	return nil, false
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
