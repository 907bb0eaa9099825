package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

func TestCustomerRepository_AddListFind(t *testing.T) {
	repo := memory.NewCustomerRepository()

	ana, err := repo.Add(domain.Customer{Name: "Ana Silva", Phone: "555-0101"})
	require.NoError(t, err)
	_, err = repo.Add(domain.Customer{Name: "Bruno Costa"})
	require.NoError(t, err)
	duplicate, err := repo.Add(domain.Customer{Name: "Ana Silva", Phone: "555-0199"})
	require.NoError(t, err)

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Bruno Costa", all[1].Name)
	assert.NotSame(t, ana, duplicate)

	found, ok := repo.FindByName("  Silva ")
	require.True(t, ok)
	assert.Same(t, ana, found, "first match wins")

	found, ok = repo.FindByName("")
	require.True(t, ok)
	assert.Same(t, ana, found, "empty query matches the first customer")

	found, ok = repo.FindByName("COSTA")
	require.True(t, ok, "search ignores case")
	assert.Equal(t, "Bruno Costa", found.Name)

	_, ok = repo.FindByName("Carla")
	assert.False(t, ok)
}

func TestCustomerRepository_EmptyFind(t *testing.T) {
	repo := memory.NewCustomerRepository()
	_, ok := repo.FindByName("")
	assert.False(t, ok)
}
