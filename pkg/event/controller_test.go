package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupController(t *testing.T) (context.Context, *Controller, *RepositoryStub) {
	repo := NewRepositoryStub()
	return context.Background(), NewController(NewService(repo, nil)), repo
}

func TestController_List(t *testing.T) {
	t.Run("should render an empty list", func(t *testing.T) {
		ctx, controller, _ := setupController(t)

		outcome, err := controller.List(ctx)

		require.NoError(t, err)
		render := outcome.(Render)
		assert.Equal(t, "index", render.View)
		assert.Empty(t, render.Data)
	})

	t.Run("should fail on storage error", func(t *testing.T) {
		ctx, controller, repo := setupController(t)
		repo.Err = errors.New("timeout")

		_, err := controller.List(ctx)

		assert.ErrorIs(t, err, repo.Err)
	})
}

func TestController_Details(t *testing.T) {
	ctx, controller, _ := setupController(t)
	outcome, err := controller.SubmitCreate(ctx, validDraft())
	require.NoError(t, err)
	require.IsType(t, Redirect{}, outcome)

	t.Run("should render an existing event", func(t *testing.T) {
		outcome, err := controller.Details(ctx, 1)

		require.NoError(t, err)
		render := outcome.(Render)
		assert.Equal(t, "details", render.View)
		assert.Equal(t, "Standup", render.Data.(Event).Title)
	})

	t.Run("should report a missing event", func(t *testing.T) {
		outcome, err := controller.Details(ctx, 9999)

		require.NoError(t, err)
		assert.Equal(t, NotFound{}, outcome)
	})
}

func TestController_CreateForm(t *testing.T) {
	ctx, controller, _ := setupController(t)

	outcome, err := controller.CreateForm(ctx)

	require.NoError(t, err)
	assert.Equal(t, Render{View: "create", Data: FormData{Draft: Draft{ReminderMinutes: "0"}}}, outcome)
}

func TestController_SubmitCreate(t *testing.T) {
	t.Run("should redirect to the list after creating", func(t *testing.T) {
		ctx, controller, repo := setupController(t)

		outcome, err := controller.SubmitCreate(ctx, validDraft())

		require.NoError(t, err)
		assert.Equal(t, Redirect{Target: ListPath}, outcome)
		events, _ := repo.ListEvents(ctx)
		assert.Len(t, events, 1)
	})

	t.Run("should redisplay an invalid draft with its errors", func(t *testing.T) {
		ctx, controller, repo := setupController(t)
		draft := validDraft()
		draft.Title = ""

		outcome, err := controller.SubmitCreate(ctx, draft)

		require.NoError(t, err)
		redisplay := outcome.(Redisplay)
		assert.Equal(t, "create", redisplay.View)
		assert.Equal(t, draft, redisplay.Draft)
		assert.Equal(t, "Title is required.", redisplay.Errors["title"])
		events, _ := repo.ListEvents(ctx)
		assert.Empty(t, events)
	})
}

func TestController_EditForm(t *testing.T) {
	ctx, controller, _ := setupController(t)
	_, err := controller.SubmitCreate(ctx, validDraft())
	require.NoError(t, err)

	t.Run("should prefill the form", func(t *testing.T) {
		outcome, err := controller.EditForm(ctx, 1)

		require.NoError(t, err)
		expected := validDraft()
		expected.Id = 1
		assert.Equal(t, Render{View: "edit", Data: FormData{Draft: expected}}, outcome)
	})

	t.Run("should report a missing event", func(t *testing.T) {
		outcome, err := controller.EditForm(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, NotFound{}, outcome)
	})
}

func TestController_SubmitEdit(t *testing.T) {
	setup := func(t *testing.T) (context.Context, *Controller, *RepositoryStub) {
		ctx, controller, repo := setupController(t)
		_, err := controller.SubmitCreate(ctx, validDraft())
		require.NoError(t, err)
		return ctx, controller, repo
	}

	t.Run("should update and redirect", func(t *testing.T) {
		ctx, controller, repo := setup(t)
		draft := validDraft()
		draft.Id = 1
		draft.Title = "Retro"

		outcome, err := controller.SubmitEdit(ctx, 1, draft)

		require.NoError(t, err)
		assert.Equal(t, Redirect{Target: ListPath}, outcome)
		stored, _ := repo.GetEvent(ctx, 1)
		assert.Equal(t, "Retro", stored.Title)
	})

	t.Run("should refuse a draft addressed to another event", func(t *testing.T) {
		ctx, controller, repo := setup(t)
		draft := validDraft()
		draft.Id = 2
		draft.Title = "Retro"

		outcome, err := controller.SubmitEdit(ctx, 1, draft)

		require.NoError(t, err)
		assert.Equal(t, NotFound{}, outcome)
		stored, _ := repo.GetEvent(ctx, 1)
		assert.Equal(t, "Standup", stored.Title)
	})

	t.Run("should report a missing event", func(t *testing.T) {
		ctx, controller, _ := setup(t)
		draft := validDraft()
		draft.Id = 9999

		outcome, err := controller.SubmitEdit(ctx, 9999, draft)

		require.NoError(t, err)
		assert.Equal(t, NotFound{}, outcome)
	})

	t.Run("should report a missing event before validating the draft", func(t *testing.T) {
		ctx, controller, _ := setup(t)

		outcome, err := controller.SubmitEdit(ctx, 999, Draft{Id: 999})

		require.NoError(t, err)
		assert.Equal(t, NotFound{}, outcome)
	})

	t.Run("should fail on storage error while looking up the event", func(t *testing.T) {
		ctx, controller, repo := setup(t)
		repo.Err = errors.New("timeout")
		draft := validDraft()
		draft.Id = 1

		_, err := controller.SubmitEdit(ctx, 1, draft)

		assert.ErrorIs(t, err, repo.Err)
	})

	t.Run("should redisplay an invalid draft", func(t *testing.T) {
		ctx, controller, _ := setup(t)
		draft := validDraft()
		draft.Id = 1
		draft.ReminderMinutes = "soon"

		outcome, err := controller.SubmitEdit(ctx, 1, draft)

		require.NoError(t, err)
		redisplay := outcome.(Redisplay)
		assert.Equal(t, "edit", redisplay.View)
		assert.Contains(t, redisplay.Errors, "reminderMinutes")
	})
}

func TestController_Delete(t *testing.T) {
	ctx, controller, repo := setupController(t)
	_, err := controller.SubmitCreate(ctx, validDraft())
	require.NoError(t, err)

	t.Run("should confirm an existing event", func(t *testing.T) {
		outcome, err := controller.DeleteConfirm(ctx, 1)

		require.NoError(t, err)
		render := outcome.(Render)
		assert.Equal(t, "delete", render.View)
		assert.Equal(t, int64(1), render.Data.(Event).Id)
	})

	t.Run("should report a missing event on confirm", func(t *testing.T) {
		outcome, err := controller.DeleteConfirm(ctx, 9999)

		require.NoError(t, err)
		assert.Equal(t, NotFound{}, outcome)
	})

	t.Run("should delete and redirect, twice", func(t *testing.T) {
		for range 2 {
			outcome, err := controller.SubmitDelete(ctx, 1)

			require.NoError(t, err)
			assert.Equal(t, Redirect{Target: ListPath}, outcome)
		}
		_, err := repo.GetEvent(ctx, 1)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
