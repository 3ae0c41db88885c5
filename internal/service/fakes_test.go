package service_test

import (
	"context"
	"errors"
	"sort"

	"sprintdeck/internal/model"
	"sprintdeck/internal/repository"

	"github.com/google/uuid"
)

// In-memory stores backing the service tests. The saga and succession
// properties are about how state evolves across calls, so stateful fakes fit
// better than call-expectation mocks here.

type fakeUserStore struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return s.users[id], nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.users, id)
	return nil
}

type fakeProjectStore struct {
	projects map[uuid.UUID]*model.Project
	order    []uuid.UUID
	members  *fakeMembershipStore
}

func newFakeProjectStore(members *fakeMembershipStore, projects ...*model.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: make(map[uuid.UUID]*model.Project), members: members}
	for _, p := range projects {
		s.projects[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s
}

func (s *fakeProjectStore) CreateWithOwner(_ context.Context, project *model.Project, owner *model.Membership) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	owner.ProjectID = project.ID
	*owner = s.members.add(*owner)
	s.projects[project.ID] = project
	s.order = append(s.order, project.ID)
	return nil
}

func (s *fakeProjectStore) GetByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	return s.projects[id], nil
}

func (s *fakeProjectStore) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	var owned []model.Project
	for _, id := range s.order {
		if p, ok := s.projects[id]; ok && p.OwnerID == ownerID {
			owned = append(owned, *p)
		}
	}
	return owned, nil
}

func (s *fakeProjectStore) Save(_ context.Context, project *model.Project) error {
	s.projects[project.ID] = project
	return nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.projects, id)
	return nil
}

type fakeMembershipStore struct {
	rows   []model.Membership
	nextID uint
}

func (s *fakeMembershipStore) add(m model.Membership) model.Membership {
	s.nextID++
	m.ID = s.nextID
	s.rows = append(s.rows, m)
	return m
}

func (s *fakeMembershipStore) Insert(_ context.Context, membership *model.Membership) error {
	for _, m := range s.rows {
		if m.ProjectID == membership.ProjectID && m.UserID == membership.UserID && !m.Deleted {
			return repository.ErrDuplicateMembership
		}
	}
	*membership = s.add(*membership)
	return nil
}

func (s *fakeMembershipStore) Active(_ context.Context, projectID, userID uuid.UUID) (*model.Membership, error) {
	for i := range s.rows {
		m := s.rows[i]
		if m.ProjectID == projectID && m.UserID == userID && !m.Deleted {
			return &m, nil
		}
	}
	return nil, nil
}

func (s *fakeMembershipStore) ActiveByProject(_ context.Context, projectID uuid.UUID) ([]model.Membership, error) {
	var active []model.Membership
	for _, m := range s.rows {
		if m.ProjectID == projectID && !m.Deleted {
			active = append(active, m)
		}
	}
	sortJoinOrder(active)
	return active, nil
}

func (s *fakeMembershipStore) ActiveByUser(_ context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var active []model.Membership
	for _, m := range s.rows {
		if m.UserID == userID && !m.Deleted {
			active = append(active, m)
		}
	}
	sortJoinOrder(active)
	return active, nil
}

func (s *fakeMembershipStore) AllByProject(_ context.Context, projectID uuid.UUID) ([]model.Membership, error) {
	var all []model.Membership
	for _, m := range s.rows {
		if m.ProjectID == projectID {
			all = append(all, m)
		}
	}
	sortJoinOrder(all)
	return all, nil
}

func (s *fakeMembershipStore) SoftDelete(_ context.Context, id uint) error {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Deleted = true
		}
	}
	return nil
}

func (s *fakeMembershipStore) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	kept := s.rows[:0]
	for _, m := range s.rows {
		if m.ProjectID != projectID {
			kept = append(kept, m)
		}
	}
	s.rows = kept
	return nil
}

func sortJoinOrder(rows []model.Membership) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].JoinedAt.Equal(rows[j].JoinedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].JoinedAt.Before(rows[j].JoinedAt)
	})
}

// fakePurger records task-store calls and can be told to fail, to exercise
// the saga's partial-failure path.
type fakePurger struct {
	purged       []uuid.UUID
	cleared      []uuid.UUID
	failPurge    bool
	failClearFor int // fail ClearAssignee this many times, then succeed
}

func (p *fakePurger) DeleteProjectRelatedItems(_ context.Context, projectID uuid.UUID) error {
	if p.failPurge {
		return errors.New("task store unavailable")
	}
	p.purged = append(p.purged, projectID)
	return nil
}

func (p *fakePurger) ClearAssignee(_ context.Context, userID uuid.UUID) error {
	if p.failClearFor > 0 {
		p.failClearFor--
		return errors.New("task store unavailable")
	}
	p.cleared = append(p.cleared, userID)
	return nil
}

type fakeSprintStore struct {
	sprints map[uuid.UUID]*model.Sprint
}

func newFakeSprintStore(sprints ...*model.Sprint) *fakeSprintStore {
	s := &fakeSprintStore{sprints: make(map[uuid.UUID]*model.Sprint)}
	for _, sp := range sprints {
		s.sprints[sp.ID] = sp
	}
	return s
}

func (s *fakeSprintStore) Create(_ context.Context, sprint *model.Sprint) error {
	if sprint.ID == uuid.Nil {
		sprint.ID = uuid.New()
	}
	s.sprints[sprint.ID] = sprint
	return nil
}

func (s *fakeSprintStore) GetByID(_ context.Context, id uuid.UUID) (*model.Sprint, error) {
	return s.sprints[id], nil
}

func (s *fakeSprintStore) GetByProject(_ context.Context, projectID uuid.UUID) ([]model.Sprint, error) {
	var out []model.Sprint
	for _, sp := range s.sprints {
		if sp.ProjectID == projectID {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (s *fakeSprintStore) Save(_ context.Context, sprint *model.Sprint) error {
	s.sprints[sprint.ID] = sprint
	return nil
}

func (s *fakeSprintStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.sprints, id)
	return nil
}

func (s *fakeSprintStore) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	for id, sp := range s.sprints {
		if sp.ProjectID == projectID {
			delete(s.sprints, id)
		}
	}
	return nil
}

type fakeTaskStore struct {
	tasks map[uuid.UUID]*model.Task
}

func newFakeTaskStore(tasks ...*model.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[uuid.UUID]*model.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) Create(_ context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	return s.tasks[id], nil
}

func (s *fakeTaskStore) GetByProject(_ context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var out []model.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) GetBySprint(_ context.Context, sprintID uuid.UUID) ([]model.Task, error) {
	var out []model.Task
	for _, t := range s.tasks {
		if t.SprintID != nil && *t.SprintID == sprintID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) CountUnfinishedBySprint(_ context.Context, sprintID uuid.UUID) (int64, error) {
	var n int64
	for _, t := range s.tasks {
		if t.SprintID != nil && *t.SprintID == sprintID && t.Status != model.StatusDone {
			n++
		}
	}
	return n, nil
}

func (s *fakeTaskStore) Save(_ context.Context, task *model.Task) error {
	s.tasks[task.ID] = task
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) DetachSprint(_ context.Context, sprintID uuid.UUID) error {
	for _, t := range s.tasks {
		if t.SprintID != nil && *t.SprintID == sprintID {
			t.SprintID = nil
		}
	}
	return nil
}

func (s *fakeTaskStore) ClearAssignee(_ context.Context, userID uuid.UUID) error {
	for _, t := range s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == userID {
			t.AssigneeID = nil
		}
	}
	return nil
}

func (s *fakeTaskStore) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	for id, t := range s.tasks {
		if t.ProjectID == projectID {
			delete(s.tasks, id)
		}
	}
	return nil
}
