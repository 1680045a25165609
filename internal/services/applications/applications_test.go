package applications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperror"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/dbtest"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/notify"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingPublisher) Publish(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingPublisher) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

type fixture struct {
	svc    *Service
	db     *gorm.DB
	pub    *recordingPublisher
	client models.User
}

func newFixture(t *testing.T) fixture {
	gdb := dbtest.New(t)
	pub := &recordingPublisher{}
	f := fixture{svc: NewService(gdb, pub), db: gdb, pub: pub}
	f.client = f.user(t, "client", models.RoleClient)
	return f
}

func (f fixture) user(t *testing.T, name string, role models.Role) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Password: "x", Role: role}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f fixture) project(t *testing.T, title string) models.Project {
	t.Helper()
	p := models.Project{
		ClientID:    f.client.ID,
		Title:       title,
		Description: "work",
		Budget:      100,
		Deadline:    time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f fixture) reload(t *testing.T, id uuid.UUID) models.Project {
	t.Helper()
	var p models.Project
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return p
}

func (f fixture) applicationCount(t *testing.T, projectID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Application{}).Where("project_id = ?", projectID).Count(&n).Error)
	return n
}

func TestApplyFirstApplicantMovesProjectToApplied(t *testing.T) {
	f := newFixture(t)
	dev := f.user(t, "dana", models.RoleDeveloper)
	p := f.project(t, "Logo")
	require.Equal(t, models.ProjectOpen, p.Status)

	app, err := f.svc.Apply(context.Background(), dev, p.ID, ApplyInput{CoverLetter: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "Hi", app.CoverLetter)
	assert.Equal(t, p.ID, app.ProjectID)
	assert.Equal(t, dev.ID, app.FreelancerID)

	got := f.reload(t, p.ID)
	assert.Equal(t, models.ProjectApplied, got.Status)
	assert.Equal(t, []uuid.UUID{dev.ID}, []uuid.UUID(got.AppliedFreelancers))

	events := f.pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventApplicationSubmitted, events[0].Type)
	assert.Equal(t, f.client.ID, events[0].RecipientID)
	assert.Equal(t, "Logo", events[0].ProjectTitle)
	assert.Equal(t, app.ID, events[0].ApplicationID)
	assert.Equal(t, "dana", events[0].ActorName)
}

func TestApplyTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	dev := f.user(t, "dana", models.RoleDeveloper)
	p := f.project(t, "Logo")

	_, err := f.svc.Apply(context.Background(), dev, p.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), dev, p.ID, ApplyInput{CoverLetter: "again"})
	e, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, e.Kind)
	assert.Equal(t, "You have already applied to this project", e.Message)

	assert.EqualValues(t, 1, f.applicationCount(t, p.ID))
	assert.Len(t, f.pub.Events(), 1)
}

func TestSecondApplicantKeepsAppliedStatus(t *testing.T) {
	f := newFixture(t)
	d := f.user(t, "dana", models.RoleDeveloper)
	e := f.user(t, "eli", models.RoleDeveloper)
	p := f.project(t, "Logo")

	_, err := f.svc.Apply(context.Background(), d, p.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = f.svc.Apply(context.Background(), e, p.ID, ApplyInput{})
	require.NoError(t, err)

	got := f.reload(t, p.ID)
	assert.Equal(t, models.ProjectApplied, got.Status)
	assert.Equal(t, []uuid.UUID{d.ID, e.ID}, []uuid.UUID(got.AppliedFreelancers))
}

// Only In Progress and Completed are closed. Applied keeps accepting
// applicants even though the gate is often described as Open-only: the
// second-applicant flow (see TestSecondApplicantKeepsAppliedStatus) needs it.
func TestApplyToClosedProject(t *testing.T) {
	for _, status := range []models.ProjectStatus{models.ProjectInProgress, models.ProjectCompleted} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			dev := f.user(t, "dana", models.RoleDeveloper)
			p := f.project(t, "Logo")
			require.NoError(t, f.db.Model(&p).Update("status", status).Error)

			_, err := f.svc.Apply(context.Background(), dev, p.ID, ApplyInput{})
			e, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindInvalid, e.Kind)
			assert.Equal(t, "This project is no longer accepting applications", e.Message)

			assert.Zero(t, f.applicationCount(t, p.ID))
			assert.Equal(t, status, f.reload(t, p.ID).Status)
			assert.Empty(t, f.pub.Events())
		})
	}
}

func TestApplyPreconditions(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Logo")

	_, err := f.svc.Apply(context.Background(), f.client, p.ID, ApplyInput{})
	assert.ErrorIs(t, err, apperror.Forbidden(""))

	dev := f.user(t, "dana", models.RoleDeveloper)
	_, err = f.svc.Apply(context.Background(), dev, uuid.New(), ApplyInput{})
	assert.ErrorIs(t, err, apperror.NotFound(""))

	assert.Equal(t, models.ProjectOpen, f.reload(t, p.ID).Status)
}

func TestConcurrentApplicantsTransitionOnce(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Logo")

	const n = 8
	devs := make([]models.User, n)
	for i := range devs {
		devs[i] = f.user(t, "dev"+uuid.NewString()[:8], models.RoleDeveloper)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, d := range devs {
		wg.Add(1)
		go func(d models.User) {
			defer wg.Done()
			_, err := f.svc.Apply(context.Background(), d, p.ID, ApplyInput{})
			errs <- err
		}(d)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	got := f.reload(t, p.ID)
	assert.Equal(t, models.ProjectApplied, got.Status)
	assert.Len(t, got.AppliedFreelancers, n)
	assert.EqualValues(t, n, f.applicationCount(t, p.ID))
}

func TestConcurrentDuplicateAdmitsOne(t *testing.T) {
	f := newFixture(t)
	dev := f.user(t, "dana", models.RoleDeveloper)
	p := f.project(t, "Logo")

	const n = 6
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Apply(context.Background(), dev, p.ID, ApplyInput{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperror.Conflict(""))
		conflicts++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	assert.EqualValues(t, 1, f.applicationCount(t, p.ID))
	assert.Len(t, f.reload(t, p.ID).AppliedFreelancers, 1)
}

func TestUniqueIndexGuardsDirectInserts(t *testing.T) {
	f := newFixture(t)
	dev := f.user(t, "dana", models.RoleDeveloper)
	p := f.project(t, "Logo")

	require.NoError(t, f.db.Create(&models.Application{ProjectID: p.ID, FreelancerID: dev.ID}).Error)
	err := f.db.Create(&models.Application{ProjectID: p.ID, FreelancerID: dev.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	dev := f.user(t, "dana", models.RoleDeveloper)
	other := f.user(t, "eli", models.RoleDeveloper)
	first := f.project(t, "First")
	second := f.project(t, "Second")

	_, err := f.svc.Apply(context.Background(), dev, first.ID, ApplyInput{})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.svc.Apply(context.Background(), dev, second.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = f.svc.Apply(context.Background(), other, first.ID, ApplyInput{})
	require.NoError(t, err)

	mine, err := f.svc.ListMine(context.Background(), dev)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.NotNil(t, mine[0].Project)
	assert.Equal(t, "Second", mine[0].Project.Title)
	assert.Equal(t, "First", mine[1].Project.Title)
}

func TestApplyWithoutPublisher(t *testing.T) {
	f := newFixture(t)
	f.svc.Publisher = nil
	dev := f.user(t, "dana", models.RoleDeveloper)
	p := f.project(t, "Logo")

	_, err := f.svc.Apply(context.Background(), dev, p.ID, ApplyInput{})
	assert.NoError(t, err)
}
