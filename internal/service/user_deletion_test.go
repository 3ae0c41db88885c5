package service_test

import (
	"context"
	"testing"
	"time"

	"sprintdeck/internal/model"
	"sprintdeck/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sagaFixture is the cross-store setup the deletion scenarios share: user A
// owns project P with member B, and owns project Q alone.
type sagaFixture struct {
	users      *fakeUserStore
	projects   *fakeProjectStore
	members    *fakeMembershipStore
	purger     *fakePurger
	svc        *service.UserService
	userA      uuid.UUID
	userB      uuid.UUID
	projectP   uuid.UUID
	projectQ   uuid.UUID
	succession *service.MembershipService
}

func newSagaFixture(t *testing.T) *sagaFixture {
	t.Helper()
	f := &sagaFixture{
		userA: uuid.New(),
		userB: uuid.New(),
	}
	f.users = newFakeUserStore(
		&model.User{ID: f.userA, Email: "a@example.com", Name: "A"},
		&model.User{ID: f.userB, Email: "b@example.com", Name: "B"},
	)
	f.members = &fakeMembershipStore{}
	projectP := &model.Project{ID: uuid.New(), Name: "P", Status: model.ProjectInProgress, OwnerID: f.userA}
	projectQ := &model.Project{ID: uuid.New(), Name: "Q", Status: model.ProjectInProgress, OwnerID: f.userA}
	f.projectP = projectP.ID
	f.projectQ = projectQ.ID
	f.projects = newFakeProjectStore(f.members, projectP, projectQ)
	f.members.add(model.Membership{ProjectID: projectP.ID, UserID: f.userA, JoinedAt: baseTime})
	f.members.add(model.Membership{ProjectID: projectP.ID, UserID: f.userB, JoinedAt: baseTime.Add(time.Hour)})
	f.members.add(model.Membership{ProjectID: projectQ.ID, UserID: f.userA, JoinedAt: baseTime})
	f.purger = &fakePurger{}
	f.succession = service.NewMembershipService(f.projects, f.members, f.users)
	f.svc = service.NewUserService(f.users, f.projects, f.members, f.purger, f.succession)
	return f
}

func TestDeleteUser_RequiresForceWhenOwningProjects(t *testing.T) {
	f := newSagaFixture(t)

	err := f.svc.DeleteUser(context.Background(), f.userA, false)
	assert.ErrorIs(t, err, service.ErrConflict)

	// Nothing moved.
	assert.NotNil(t, f.users.users[f.userA])
	assert.Equal(t, f.userA, f.projects.projects[f.projectP].OwnerID)
	assert.Empty(t, f.purger.purged)
}

func TestDeleteUser_NotFound(t *testing.T) {
	f := newSagaFixture(t)

	err := f.svc.DeleteUser(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteUser_ForceCascades(t *testing.T) {
	f := newSagaFixture(t)

	err := f.svc.DeleteUser(context.Background(), f.userA, true)
	require.NoError(t, err)

	// P survives under B, the earliest remaining member.
	require.NotNil(t, f.projects.projects[f.projectP])
	assert.Equal(t, f.userB, f.projects.projects[f.projectP].OwnerID)

	// Q had no other member and is gone with its sprints and tasks.
	assert.Nil(t, f.projects.projects[f.projectQ])
	assert.Equal(t, []uuid.UUID{f.projectQ}, f.purger.purged)

	// A's row in P is soft-deleted history, B's is untouched; Q's rows are
	// hard-deleted with the project.
	rowsP, err := f.members.AllByProject(context.Background(), f.projectP)
	require.NoError(t, err)
	require.Len(t, rowsP, 2)
	assert.Equal(t, f.userA, rowsP[0].UserID)
	assert.True(t, rowsP[0].Deleted)
	assert.Equal(t, f.userB, rowsP[1].UserID)
	assert.False(t, rowsP[1].Deleted)
	rowsQ, err := f.members.AllByProject(context.Background(), f.projectQ)
	require.NoError(t, err)
	assert.Empty(t, rowsQ)

	// Assignee references cleared, user row deleted last.
	assert.Equal(t, []uuid.UUID{f.userA}, f.purger.cleared)
	assert.Nil(t, f.users.users[f.userA])
	assert.NotNil(t, f.users.users[f.userB])
}

func TestDeleteUser_NonOwnerNeedsNoForce(t *testing.T) {
	f := newSagaFixture(t)

	err := f.svc.DeleteUser(context.Background(), f.userB, false)
	require.NoError(t, err)

	assert.Nil(t, f.users.users[f.userB])
	// P is untouched except for B's membership row.
	assert.Equal(t, f.userA, f.projects.projects[f.projectP].OwnerID)
	rowsP, err := f.members.AllByProject(context.Background(), f.projectP)
	require.NoError(t, err)
	require.Len(t, rowsP, 2)
	assert.True(t, rowsP[1].Deleted)
}

// A mid-way store failure leaves the user row in place; the retry finishes
// the remaining work and converges on the same final state.
func TestDeleteUser_PartialFailureThenRetry(t *testing.T) {
	f := newSagaFixture(t)
	f.purger.failClearFor = 1

	err := f.svc.DeleteUser(context.Background(), f.userA, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear assignee")
	assert.NotNil(t, f.users.users[f.userA], "user row must survive a partial failure")

	// First run already handed P to B and deleted Q.
	assert.Equal(t, f.userB, f.projects.projects[f.projectP].OwnerID)
	assert.Nil(t, f.projects.projects[f.projectQ])

	err = f.svc.DeleteUser(context.Background(), f.userA, true)
	require.NoError(t, err)

	assert.Nil(t, f.users.users[f.userA])
	assert.Equal(t, f.userB, f.projects.projects[f.projectP].OwnerID)
	assert.Equal(t, []uuid.UUID{f.userA}, f.purger.cleared)
}

// The saga keeps going past a failing project and reports every failure in
// one aggregated error.
func TestDeleteUser_AggregatesProjectFailures(t *testing.T) {
	f := newSagaFixture(t)
	f.purger.failPurge = true

	err := f.svc.DeleteUser(context.Background(), f.userA, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), f.projectQ.String())
	assert.NotNil(t, f.users.users[f.userA])

	// The transferable project was still handed over.
	assert.Equal(t, f.userB, f.projects.projects[f.projectP].OwnerID)
	// The sole-member project could not be purged and survives for the retry.
	assert.NotNil(t, f.projects.projects[f.projectQ])
}
