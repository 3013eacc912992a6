package load

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsedTime:  200 * time.Millisecond,
		MaxAttempts:     2,
	}
}

type fakeCityRepo struct {
	mu          sync.Mutex
	rows        map[string]*entities.City
	nextID      uint
	findErr     error
	upsertErr   error
	upsertCalls int
}

func newFakeCityRepo() *fakeCityRepo {
	return &fakeCityRepo{rows: make(map[string]*entities.City)}
}

func (f *fakeCityRepo) FindByNames(ctx context.Context, names []string) ([]*entities.City, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entities.City
	for _, name := range names {
		if c, ok := f.rows[name]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCityRepo) UpsertChunk(ctx context.Context, cities []*entities.City) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, c := range cities {
		if cur, ok := f.rows[c.CityName]; ok {
			cur.State = c.State
			continue
		}
		f.nextID++
		f.rows[c.CityName] = &entities.City{CityID: f.nextID, CityName: c.CityName, State: c.State}
	}
	return nil
}

func (f *fakeCityRepo) MapIDsByName(ctx context.Context, names []string) (map[string]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make(map[string]uint)
	for _, name := range names {
		if c, ok := f.rows[name]; ok {
			out[name] = c.CityID
		}
	}
	return out, nil
}

type fakeMeetingRepo struct {
	mu        sync.Mutex
	rows      map[string]*entities.Meeting
	badID     string
	upsertErr error
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{rows: make(map[string]*entities.Meeting)}
}

func (f *fakeMeetingRepo) ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := f.rows[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) UpsertChunk(ctx context.Context, meetings []*entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.badID != "" {
		for _, m := range meetings {
			if m.MeetingID == f.badID {
				return gorm.ErrForeignKeyViolated
			}
		}
	}
	for _, m := range meetings {
		cp := *m
		f.rows[m.MeetingID] = &cp
	}
	return nil
}

type fakeAgendaRepo struct {
	mu   sync.Mutex
	rows map[string]*entities.Agenda
}

func newFakeAgendaRepo() *fakeAgendaRepo {
	return &fakeAgendaRepo{rows: make(map[string]*entities.Agenda)}
}

func (f *fakeAgendaRepo) ExistingKeys(ctx context.Context, meetingIDs []string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]struct{}, len(meetingIDs))
	for _, id := range meetingIDs {
		wanted[id] = struct{}{}
	}
	out := make(map[string]struct{})
	for key, a := range f.rows {
		if _, ok := wanted[a.MeetingID]; ok {
			out[key] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeAgendaRepo) UpsertChunk(ctx context.Context, agendas []*entities.Agenda) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range agendas {
		cp := *a
		f.rows[a.Key()] = &cp
	}
	return nil
}

func testBatch() *entities.Batch {
	return &entities.Batch{
		BatchID: "batch-1",
		Cities: []entities.CityRecord{
			{CityName: "Seattle", State: "WA"},
			{CityName: "Denver", State: "CO"},
		},
		Meetings: []entities.MeetingRecord{
			{MeetingID: "M1", CityName: "Seattle", MeetingDate: "2023-05-01", Title: "Budget session"},
			{MeetingID: "M2", CityName: "Denver", MeetingDate: "05/02/2023", Title: "Zoning review"},
		},
		Agendas: []entities.AgendaRecord{
			{MeetingID: "M1", ItemNumber: 1, Topic: "Opening remarks"},
			{MeetingID: "M1", ItemNumber: 2, Topic: "Budget vote"},
			{MeetingID: "M2", ItemNumber: 1, Topic: "Rezoning request"},
		},
	}
}

func newTestRelationalLoader(cities *fakeCityRepo, meetings *fakeMeetingRepo, agendas *fakeAgendaRepo) *RelationalLoader {
	return NewRelationalLoader(cities, meetings, agendas, 2, testPolicy(), nil)
}

func TestRelationalLoaderFreshBatch(t *testing.T) {
	cities := newFakeCityRepo()
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	res := loader.Load(context.Background(), testBatch())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Cities.Inserted != 2 || res.Meetings.Inserted != 2 || res.Agendas.Inserted != 3 {
		t.Fatalf("unexpected counts: cities=%+v meetings=%+v agendas=%+v", res.Cities, res.Meetings, res.Agendas)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected row errors: %+v", res.Failures())
	}

	m1 := meetings.rows["M1"]
	if m1 == nil || m1.CityID == 0 {
		t.Fatalf("meeting M1 missing or has unresolved city: %+v", m1)
	}
	if m1.CityID != cities.rows["Seattle"].CityID {
		t.Fatalf("meeting M1 mapped to wrong city: got %d", m1.CityID)
	}
}

func TestRelationalLoaderSecondLoadUpdates(t *testing.T) {
	cities := newFakeCityRepo()
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	if res := loader.Load(context.Background(), testBatch()); res.Err != nil {
		t.Fatalf("first load failed: %v", res.Err)
	}
	res := loader.Load(context.Background(), testBatch())
	if res.Err != nil {
		t.Fatalf("second load failed: %v", res.Err)
	}

	if res.Cities.Inserted != 0 || res.Cities.Skipped != 2 {
		t.Fatalf("expected unchanged cities to be skipped, got %+v", res.Cities)
	}
	if res.Meetings.Inserted != 0 || res.Meetings.Updated != 2 {
		t.Fatalf("expected meetings updated in place, got %+v", res.Meetings)
	}
	if res.Agendas.Inserted != 0 || res.Agendas.Updated != 3 {
		t.Fatalf("expected agendas updated in place, got %+v", res.Agendas)
	}
	if len(agendas.rows) != 3 {
		t.Fatalf("agendas accumulated duplicates: %d rows", len(agendas.rows))
	}
}

func TestRelationalLoaderUnknownCityFailsOnlyThatMeeting(t *testing.T) {
	cities := newFakeCityRepo()
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	batch := testBatch()
	batch.Meetings = append(batch.Meetings, entities.MeetingRecord{
		MeetingID: "M3", CityName: "Atlantis", MeetingDate: "2023-05-03",
	})

	res := loader.Load(context.Background(), batch)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Meetings.Inserted != 2 || res.Meetings.Failed != 1 {
		t.Fatalf("unexpected meeting counts: %+v", res.Meetings)
	}
	failures := res.Meetings.Failures
	if len(failures) != 1 || failures[0].Identifier != "M3" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	if _, ok := meetings.rows["M3"]; ok {
		t.Fatal("meeting with unresolvable city must not be written")
	}
}

func TestRelationalLoaderAgendaUnknownMeeting(t *testing.T) {
	cities := newFakeCityRepo()
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	batch := testBatch()
	batch.Agendas = append(batch.Agendas, entities.AgendaRecord{
		MeetingID: "M999", ItemNumber: 1, Topic: "Ghost item",
	})

	res := loader.Load(context.Background(), batch)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Agendas.Inserted != 3 || res.Agendas.Failed != 1 {
		t.Fatalf("unexpected agenda counts: %+v", res.Agendas)
	}
	failures := res.Agendas.Failures
	if len(failures) != 1 || failures[0].Identifier != "M999:1" {
		t.Fatalf("expected composite identifier M999:1, got %+v", failures)
	}
}

func TestRelationalLoaderRejectsBadRecords(t *testing.T) {
	cities := newFakeCityRepo()
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	batch := testBatch()
	batch.Meetings = append(batch.Meetings,
		entities.MeetingRecord{MeetingID: "", CityName: "Seattle", MeetingDate: "2023-05-01"},
		entities.MeetingRecord{MeetingID: "M4", CityName: "Seattle", MeetingDate: "not-a-date"},
	)
	batch.Agendas = append(batch.Agendas, entities.AgendaRecord{MeetingID: "", ItemNumber: 1})

	res := loader.Load(context.Background(), batch)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Meetings.Rejected != 2 {
		t.Fatalf("expected 2 rejected meetings, got %+v", res.Meetings)
	}
	if res.Agendas.Rejected != 1 {
		t.Fatalf("expected 1 rejected agenda, got %+v", res.Agendas)
	}
	if res.Meetings.Inserted != 2 {
		t.Fatalf("valid meetings must still load, got %+v", res.Meetings)
	}
}

func TestRelationalLoaderConstraintFallback(t *testing.T) {
	cities := newFakeCityRepo()
	meetings := newFakeMeetingRepo()
	meetings.badID = "M2"
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	res := loader.Load(context.Background(), testBatch())
	if res.Err != nil {
		t.Fatalf("constraint violations must not abort the load: %v", res.Err)
	}
	if res.Meetings.Inserted != 1 || res.Meetings.Failed != 1 {
		t.Fatalf("expected row fallback to save chunk-mates, got %+v", res.Meetings)
	}
	if _, ok := meetings.rows["M1"]; !ok {
		t.Fatal("chunk-mate M1 should have loaded through the row fallback")
	}
	failures := res.Meetings.Failures
	if len(failures) != 1 || failures[0].Identifier != "M2" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestRelationalLoaderConnectionErrorRetriesThenAborts(t *testing.T) {
	cities := newFakeCityRepo()
	cities.upsertErr = errors.New("connection refused")
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	res := loader.Load(context.Background(), testBatch())
	if res.Err == nil {
		t.Fatal("expected infrastructure error")
	}
	// Initial attempt plus MaxAttempts retries.
	if cities.upsertCalls != 3 {
		t.Fatalf("expected 3 upsert attempts, got %d", cities.upsertCalls)
	}
	if len(meetings.rows) != 0 {
		t.Fatal("meetings must not load after the city stage aborts")
	}
}

func TestRelationalLoaderDuplicateRecordsSkipped(t *testing.T) {
	cities := newFakeCityRepo()
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	batch := testBatch()
	batch.Meetings = append(batch.Meetings, entities.MeetingRecord{
		MeetingID: "M1", CityName: "Seattle", MeetingDate: "2023-05-01", Title: "Budget session (amended)",
	})

	res := loader.Load(context.Background(), batch)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Meetings.Inserted != 2 || res.Meetings.Skipped != 1 {
		t.Fatalf("expected duplicate to be skipped, got %+v", res.Meetings)
	}
	if got := meetings.rows["M1"].Title; got != "Budget session (amended)" {
		t.Fatalf("last occurrence should win, got title %q", got)
	}
}

func TestRelationalLoaderResolvesStoredCity(t *testing.T) {
	cities := newFakeCityRepo()
	cities.rows["Boston"] = &entities.City{CityID: 7, CityName: "Boston", State: "MA"}
	cities.nextID = 7
	meetings := newFakeMeetingRepo()
	agendas := newFakeAgendaRepo()
	loader := newTestRelationalLoader(cities, meetings, agendas)

	batch := &entities.Batch{
		BatchID: "batch-2",
		Meetings: []entities.MeetingRecord{
			{MeetingID: "M10", CityName: "Boston", MeetingDate: "2023-06-01"},
		},
	}

	res := loader.Load(context.Background(), batch)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Meetings.Inserted != 1 {
		t.Fatalf("unexpected meeting counts: %+v", res.Meetings)
	}
	if meetings.rows["M10"].CityID != 7 {
		t.Fatalf("expected stored city to resolve, got city_id %d", meetings.rows["M10"].CityID)
	}
}
