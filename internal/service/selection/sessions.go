package selection

import (
	"context"
	"sync"
	"time"
)

// Sessions хранит по одной активной сессии выбора на клиента
type Sessions struct {
	catalog   CatalogClient
	schedule  ScheduleBuilder
	booker    Booker
	carryover Carryover
	metrics   Metrics
	location  *time.Location
	logger    Logger

	mu       sync.Mutex
	sessions map[string]*Controller
}

// NewSessions создает реестр сессий выбора
func NewSessions(
	catalog CatalogClient,
	schedule ScheduleBuilder,
	booker Booker,
	carryover Carryover,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Sessions {
	return &Sessions{
		catalog:   catalog,
		schedule:  schedule,
		booker:    booker,
		carryover: carryover,
		metrics:   metrics,
		location:  location,
		logger:    logger,
		sessions:  make(map[string]*Controller),
	}
}

// Start начинает новую сессию клиента, закрывая предыдущую.
// Если для клиента сохранён выбор для повторной записи, он становится начальным
// состоянием сессии и удаляется из хранилища; списки для него загружаются сразу.
// Ошибка загрузки списков не отменяет созданную сессию.
func (s *Sessions) Start(ctx context.Context, customerID string) (*Controller, error) {
	controller := NewController(customerID, s.catalog, s.schedule, s.booker, s.metrics, s.location, s.logger)

	seeded := false
	if sel, ok := s.carryover.Take(customerID); ok {
		controller.seed(sel)
		seeded = true
	}

	s.mu.Lock()
	if previous, ok := s.sessions[customerID]; ok {
		previous.Close()
	}
	s.sessions[customerID] = controller
	s.mu.Unlock()

	s.logger.Info("Sessions.Start: customer=%s carryover=%t", customerID, seeded)

	if !seeded {
		return controller, nil
	}
	return controller, controller.Refresh(ctx)
}

// Get возвращает активную сессию клиента
func (s *Sessions) Get(customerID string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	controller, ok := s.sessions[customerID]
	if !ok {
		return nil, ErrNoSession
	}
	return controller, nil
}

// End завершает сессию клиента; возвращает false, если сессии не было
func (s *Sessions) End(customerID string) bool {
	s.mu.Lock()
	controller, ok := s.sessions[customerID]
	delete(s.sessions, customerID)
	s.mu.Unlock()

	if ok {
		controller.Close()
		s.logger.Info("Sessions.End: customer=%s", customerID)
	}
	return ok
}

// Close завершает все сессии
func (s *Sessions) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Controller)
	s.mu.Unlock()

	for _, controller := range sessions {
		controller.Close()
	}
}
