package employeebreak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_SetAndClear(t *testing.T) {
	store := New(8 * time.Hour)

	assert.False(t, store.IsOnBreak(1, 5))

	store.Set(1, 5)
	assert.True(t, store.IsOnBreak(1, 5))

	// Флаг действует только для своей пары бизнес/сотрудник
	assert.False(t, store.IsOnBreak(1, 6))
	assert.False(t, store.IsOnBreak(2, 5))

	store.Clear(1, 5)
	assert.False(t, store.IsOnBreak(1, 5))
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := New(8 * time.Hour)

	store.Clear(1, 5)
	assert.False(t, store.IsOnBreak(1, 5))
}

func TestStore_FlagExpires(t *testing.T) {
	store := New(10 * time.Millisecond)

	store.Set(1, 5)
	assert.True(t, store.IsOnBreak(1, 5))

	time.Sleep(20 * time.Millisecond)
	assert.False(t, store.IsOnBreak(1, 5))

	// Истекший флаг удалён лениво, повторная установка работает
	store.Set(1, 5)
	assert.True(t, store.IsOnBreak(1, 5))
}
