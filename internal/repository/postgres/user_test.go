package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewHabitRepository(t *testing.T) {
	db := &Connection{}
	repo := NewHabitRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
