package domain

// OrderRepository описывает требования к хранилищу снимков заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrOrderAlreadyExists, если ID уже занят.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id int64) (Order, error)
	// List возвращает все заказы в порядке создания.
	List() ([]Order, error)
	// Save заменяет снимок с учётом optimistic locking и увеличивает версию.
	Save(order Order) error
	// Delete удаляет заказ. Освободившийся ID повторно не выдаётся.
	Delete(id int64) error
}

// CustomerRepository хранит клиентов в порядке добавления.
type CustomerRepository interface {
	// Add сохраняет клиента и возвращает указатель на сохранённую запись.
	Add(customer Customer) (*Customer, error)
	// List возвращает клиентов в порядке добавления.
	List() ([]*Customer, error)
	// FindByName возвращает первого клиента, чьё имя содержит запрос.
	FindByName(query string) (*Customer, bool)
}
