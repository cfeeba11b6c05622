package employeebreak

import (
	"sync"
	"time"
)

type breakKey struct {
	businessID int64
	employeeID int64
}

// Store in-memory хранилище флагов перерыва сотрудников.
// Флаг живет только в памяти процесса и истекает по TTL: перерыв — это
// оперативное состояние стойки регистрации, а не данные расписания,
// поэтому потеря флагов при рестарте допустима.
type Store struct {
	mu    sync.RWMutex
	ttl   time.Duration
	flags map[breakKey]time.Time // ключ -> момент истечения
}

// New создает новое хранилище флагов перерыва с заданным TTL
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		flags: make(map[breakKey]time.Time),
	}
}

// Set устанавливает флаг перерыва для сотрудника бизнеса
func (s *Store) Set(businessID, employeeID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[breakKey{businessID, employeeID}] = time.Now().Add(s.ttl)
}

// Clear снимает флаг перерыва для сотрудника бизнеса
func (s *Store) Clear(businessID, employeeID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, breakKey{businessID, employeeID})
}

// IsOnBreak проверяет, действует ли флаг перерыва.
// Истекшие флаги удаляются лениво при чтении.
func (s *Store) IsOnBreak(businessID, employeeID int64) bool {
	key := breakKey{businessID, employeeID}

	s.mu.RLock()
	expiresAt, ok := s.flags[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}

	if time.Now().After(expiresAt) {
		s.mu.Lock()
		// Перепроверяем под write-lock: флаг могли обновить между блокировками
		if expiresAt, ok := s.flags[key]; ok && time.Now().After(expiresAt) {
			delete(s.flags, key)
		}
		s.mu.Unlock()
		return false
	}

	return true
}
