package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

func TestPatentRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewPatentRepository()

	require.NoError(t, repo.Save(ctx, &patent.Patent{ID: "1", Name: "first"}))
	require.NoError(t, repo.Save(ctx, &patent.Patent{ID: "2", Name: "second"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ID, "newest first")

	err = repo.Save(ctx, &patent.Patent{ID: "1"})
	assert.True(t, errors.IsCode(err, errors.ErrCodePatentAlreadyExists))

	require.NoError(t, repo.Update(ctx, &patent.Patent{ID: "1", Name: "renamed"}))
	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, repo.Delete(ctx, "2"))
	_, err = repo.FindByID(ctx, "2")
	assert.True(t, errors.IsCode(err, errors.ErrCodePatentNotFound))
	assert.Equal(t, 1, repo.Len())

	got, err = repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name, "index rebuilt after delete")
}

func TestPatentRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewPatentRepository()

	assert.True(t, errors.IsCode(repo.Save(ctx, &patent.Patent{}), errors.CodeInvalidParam))
	assert.True(t, errors.IsCode(repo.Save(ctx, nil), errors.CodeInvalidParam))
	assert.True(t, errors.IsNotFound(repo.Update(ctx, &patent.Patent{ID: "x"})))
	assert.True(t, errors.IsCode(repo.Delete(ctx, "x"), errors.ErrCodePatentNotFound))
}

func TestPatentRepository_SaveAll(t *testing.T) {
	ctx := context.Background()
	repo := NewPatentRepository()
	require.NoError(t, repo.Save(ctx, &patent.Patent{ID: "old", Name: "old"}))

	require.NoError(t, repo.SaveAll(ctx, &patent.Patent{ID: "a"}, &patent.Patent{ID: "b"}))
	list, _ := repo.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})

	err := repo.SaveAll(ctx, &patent.Patent{ID: "c"}, &patent.Patent{ID: "c"})
	assert.True(t, errors.IsCode(err, errors.ErrCodePatentAlreadyExists))
	err = repo.SaveAll(ctx, &patent.Patent{ID: "d"}, &patent.Patent{ID: "old"})
	assert.True(t, errors.IsCode(err, errors.ErrCodePatentAlreadyExists))
	assert.Equal(t, 3, repo.Len(), "failed batches store nothing")
}

func TestPatentRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewPatentRepository()
	p := &patent.Patent{ID: "1", Name: "orig"}
	require.NoError(t, repo.Save(ctx, p))
	p.Name = "mutated"

	got, _ := repo.FindByID(ctx, "1")
	assert.Equal(t, "orig", got.Name)
	got.Name = "mutated again"

	list, _ := repo.List(ctx)
	assert.Equal(t, "orig", list[0].Name)
}

func TestPatentRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewPatentRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Save(ctx, &patent.Patent{ID: fmt.Sprint(i)})
			_, _ = repo.List(ctx)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, repo.Len())
}

//Personal.AI order the ending
